package http

import (
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

var (
	strCRLF = []byte("\r\n")
)

// Header encapsulates a header key value entry
type Header struct {
	Key   string
	Value string
}

type Headers []Header

func (hh Headers) MarshalZerologArray(a *zerolog.Array) {
	for _, h := range hh {
		a.Object(h)
	}
}

func (h Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("k", h.Key).
		Str("v", h.Value)
}

// AppendBytes appends "Key: Value" without the trailing CRLF
func (h *Header) AppendBytes(b []byte) []byte {
	b = append(b, h.Key...)
	b = append(b, ": "...)
	b = append(b, h.Value...)
	return b
}

// AppendLine appends "Key: Value\r\n"
func (h *Header) AppendLine(b []byte) []byte {
	b = h.AppendBytes(b)
	return append(b, strCRLF...)
}

func (h *Header) String() string {
	w := bytebufferpool.Get()
	ret := string(h.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}
