package errors

import (
	"errors"
	"fmt"

	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/hashicorp/go-multierror"
)

// Kind tags which stage of the request pipeline failed
type Kind int

const (
	Unknown Kind = iota
	InvalidURL
	Parse
	Connection
	Write
	Read
	HTTPStatus
)

func (k Kind) String() string {
	switch k {
	case InvalidURL:
		return "InvalidUrlError"
	case Parse:
		return "ParseError"
	case Connection:
		return "ConnectionError"
	case Write:
		return "WriteError"
	case Read:
		return "ReadError"
	case HTTPStatus:
		return "HttpStatusError"
	}
	return fmt.Sprintf("UnknownError(%d)", int(k))
}

var (
	// ErrInvalidURL is the cause attached to InvalidURL errors
	ErrInvalidURL = errors.New("Invalid URL")
	// ErrInvalidPort is the cause attached to Parse errors for the authority port
	ErrInvalidPort = errors.New("Invalid port")
)

// prefixfromDepth will create the indent prefix for a certain depth
// of string, e.g. 2 will yield "  " * 2 -> "    "
func prefixFromDepth(depth int) string {
	var p []byte
	for i := 0; i < depth; i++ {
		p = append(p, "  "...)
	}
	return string(p)
}

// PrintError will attempt to traverse the nested error and
// recursively print out any nested RequestErrors found
// If a multierror.Error is found, we will recursively print out
// each error found
func PrintError(err error, depth int) {
	var (
		merr *multierror.Error
		rerr *RequestError
	)

	if errors.As(err, &merr) {
		for _, v := range merr.Errors {
			PrintError(v, depth+1)
		}
	} else if rerr = AsRequestError(err); rerr != nil {
		rerr.LogError(depth)
	} else {
		log.Debug().Err(err).Msg(prefixFromDepth(depth) + "error")
	}
}

// RequestError is the failure of a single request/response exchange.
// Kind identifies the stage, Err carries the underlying cause.
type RequestError struct {
	Kind    Kind
	URL     string // URL is the url the caller asked for, if known
	Status  string // Status is the full status line for HTTPStatus errors
	Context string // Context is free text describing what was being attempted
	Err     error
}

// New creates a RequestError of the given kind
func New(kind Kind, err error, context string) *RequestError {
	return &RequestError{Kind: kind, Err: err, Context: context}
}

// Newf creates a RequestError with a formatted cause
func Newf(kind Kind, format string, args ...interface{}) *RequestError {
	return &RequestError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// StatusError creates the HTTPStatus error for a rejected status line
func StatusError(statusLine string) *RequestError {
	return &RequestError{Kind: HTTPStatus, Status: statusLine, Err: fmt.Errorf("HTTP error: %s", statusLine)}
}

// Error returns the message handed across the string boundary. Only the cause is printed
// so the boundary sees the same text the underlying layer produced.
func (e *RequestError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// WithURL records the requested url on the error and returns it
func (e *RequestError) WithURL(url string) *RequestError {
	e.URL = url
	return e
}

// LogError will log to Debug() the context surrounding the error.
// the depth argument modifies the indentation depth of the pretty printed error
func (e *RequestError) LogError(depth int) {
	base := log.Debug().
		Str("kind", e.Kind.String()).
		Str("url", e.URL).
		Str("context", e.Context)

	if e.Status != "" {
		base = base.Str("status", e.Status)
	}
	base.Err(e.Err).Msg(prefixFromDepth(depth))
}

// causer is implemented by github.com/pkg/errors wrappers, which predate Unwrap
type causer interface {
	Cause() error
}

// AsRequestError returns the first RequestError in the chain of err, following both
// Unwrap (fmt.Errorf %w) and Cause (pkg/errors.Wrap) links. It returns nil if there is none.
func AsRequestError(err error) *RequestError {
	for err != nil {
		if rerr, ok := err.(*RequestError); ok {
			return rerr
		}
		if u := errors.Unwrap(err); u != nil {
			err = u
			continue
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// KindOf returns the Kind of the first RequestError in the chain, or Unknown
func KindOf(err error) Kind {
	if rerr := AsRequestError(err); rerr != nil {
		return rerr.Kind
	}
	return Unknown
}

// IsKind reports whether err is a RequestError of kind k
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
