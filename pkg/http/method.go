package http

import (
	"bytes"
	"fmt"
	"strings"
)

type Method []byte

var (
	GET  Method = []byte("GET")
	POST Method = []byte("POST")

	ErrUnsupportedMethod = fmt.Errorf("unsupported method")
)

// MethodFromString is case insensitive. Anything other than GET and POST is rejected
func MethodFromString(m string) (Method, error) {
	switch strings.ToUpper(m) {
	case "GET":
		return GET, nil
	case "POST":
		return POST, nil
	}
	return GET, ErrUnsupportedMethod
}

// HasBody reports whether requests with this method carry a body and its framing headers
func (m Method) HasBody() bool {
	return bytes.Equal(m, POST)
}

func (m Method) String() string {
	return string(m)
}
