package http

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	// StatusOKPrefix is what an accepted status line has to start with
	StatusOKPrefix = "HTTP/1.1 200"

	readChunkSize = 4096
)

var (
	headerSeparator = []byte("\r\n\r\n")
)

// Response is a raw response split on the first blank line.
type Response struct {
	// Header is everything before the first \r\n\r\n, or the whole response if there is none
	Header []byte
	// Body is everything after the separator, empty if there is none
	Body []byte
	// StatusLine is the first line of Header, without the line ending
	StatusLine string
	// HasStatusLine is false only for an empty header block
	HasStatusLine bool
}

func (r Response) MarshalZerologObject(e *zerolog.Event) {
	e.Str("status", r.StatusLine).
		Int("headerlen", len(r.Header)).
		Int("len", len(r.Body))
}

// ParseResponse splits raw into header block and body. It never fails, the slices alias raw.
func ParseResponse(raw []byte) *Response {
	ret := &Response{Header: raw, Body: raw[len(raw):]}
	if i := bytes.Index(raw, headerSeparator); i >= 0 {
		ret.Header = raw[:i]
		ret.Body = raw[i+len(headerSeparator):]
	}

	if len(ret.Header) > 0 {
		line := ret.Header
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		ret.StatusLine = string(bytes.TrimSuffix(line, []byte("\r")))
		ret.HasStatusLine = true
	}
	return ret
}

// Validate rejects any status line that does not start with HTTP/1.1 200.
// An empty header block has no status line and is accepted with an empty body.
func (r *Response) Validate() error {
	if r.HasStatusLine && !strings.HasPrefix(r.StatusLine, StatusOKPrefix) {
		return errors2.StatusError(r.StatusLine)
	}
	return nil
}

// ReadResponse reads one response off r.
//
// If the header block declares a Content-Length, reading stops once that many body bytes are in.
// Otherwise the response runs until the peer closes the connection, which is what
// Connection: close asks for. Responses over maxBytes (when > 0) fail. Any I/O error, including
// a deadline, is a Read error.
func ReadResponse(r io.Reader, maxBytes int) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	var (
		chunk         = make([]byte, readChunkSize)
		headerEnd     = -1
		contentLength = -1
	)
	for {
		if headerEnd >= 0 && contentLength >= 0 && len(buf.B) >= headerEnd+contentLength {
			buf.B = buf.B[:headerEnd+contentLength]
			break
		}

		n, err := r.Read(chunk)
		if n > 0 {
			// only rescan the tail that could complete a separator
			from := len(buf.B) - len(headerSeparator) + 1
			if from < 0 {
				from = 0
			}
			buf.B = append(buf.B, chunk[:n]...)

			if maxBytes > 0 && len(buf.B) > maxBytes {
				return nil, errors2.Newf(errors2.Read, "response exceeds %d bytes", maxBytes)
			}

			if headerEnd < 0 {
				if i := bytes.Index(buf.B[from:], headerSeparator); i >= 0 {
					headerEnd = from + i + len(headerSeparator)
					contentLength = framedLength(buf.B[:headerEnd])
					log.Trace().Int("headerlen", headerEnd).Int("contentlength", contentLength).Msg("read header block")
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors2.New(errors2.Read, err, "reading response")
		}
	}

	return append([]byte(nil), buf.B...), nil
}

// framedLength returns the declared Content-Length of a complete header block, or -1 when the
// body has to be read until the connection closes (no length, chunked, or an unparseable block).
func framedLength(block []byte) int {
	var h fasthttp.ResponseHeader
	if err := h.Read(bufio.NewReader(bytes.NewReader(block))); err != nil {
		return -1
	}
	if n := h.ContentLength(); n >= 0 {
		return n
	}
	return -1
}

// DecodeResponse reads, parses and validates a response, returning only the body
func DecodeResponse(r io.Reader, maxBytes int) ([]byte, error) {
	raw, err := ReadResponse(r, maxBytes)
	if err != nil {
		return nil, err
	}

	resp := ParseResponse(raw)
	log.Debug().Object("response", resp).Msg("received response")
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp.Body, nil
}
