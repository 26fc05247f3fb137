package http

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/valyala/bytebufferpool"
)

const (
	ContentTypeJSON = "application/json"
)

var (
	strHTTP11 = []byte(" HTTP/1.1\r\n")
)

// Request is everything needed to encode one HTTP/1.1 request.
// Body is only sent for methods with a body (POST), where Content-Type and Content-Length
// are always sent, even for an empty body.
type Request struct {
	Method Method
	Path   string
	Host   string
	Body   []byte
}

func (r *Request) String() string {
	return fmt.Sprintf("{ request %s %s host=%s len=%d }", r.Method, r.Path, r.Host, len(r.Body))
}

func (r *Request) reset() {
	r.Method = nil
	r.Path = ""
	r.Host = ""
	r.Body = nil
}

// ContentLength is the byte length of the body, or -1 if no body is sent
func (r *Request) ContentLength() int {
	if !r.Method.HasBody() {
		return -1
	}
	return len(r.Body)
}

// Headers returns the headers in the order they are written
func (r *Request) Headers() Headers {
	hh := Headers{{Key: "Host", Value: r.Host}}
	if r.Method.HasBody() {
		hh = append(hh,
			Header{Key: "Content-Type", Value: ContentTypeJSON},
			Header{Key: "Content-Length", Value: strconv.Itoa(len(r.Body))},
		)
	}
	return append(hh, Header{Key: "Connection", Value: "close"})
}

// AppendBytes appends the full wire encoding of the request
//
//	POST /api HTTP/1.1\r\n
//	Host: foo.com\r\n
//	Content-Type: application/json\r\n
//	Content-Length: 7\r\n
//	Connection: close\r\n
//	\r\n
//	{"a":1}
func (r *Request) AppendBytes(b []byte) []byte {
	b = append(b, r.Method...)
	b = append(b, ' ')
	b = append(b, r.Path...)
	b = append(b, strHTTP11...)

	for _, h := range r.Headers() {
		b = h.AppendLine(b)
	}
	b = append(b, strCRLF...)

	if r.Method.HasBody() {
		b = append(b, r.Body...)
	}
	return b
}

// WriteTo encodes the request into a pooled buffer and writes it in one go.
// Any failure is a Write error
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.B = r.AppendBytes(buf.B)
	n, err := w.Write(buf.B)
	if err == nil && n < len(buf.B) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return int64(n), errors2.New(errors2.Write, err, r.String())
	}
	return int64(n), nil
}

var (
	requestPool sync.Pool
)

// AcquireRequest retrieves a request from the shared pool
func AcquireRequest() *Request {
	v := requestPool.Get()
	if v == nil {
		return &Request{}
	}
	return v.(*Request)
}

// ReleaseRequest releases a request into the shared pool
func ReleaseRequest(r *Request) {
	r.reset()
	requestPool.Put(r)
}
