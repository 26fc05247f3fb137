package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/francoispqt/gojay"
)

const (
	FetchDataCommand = "fetch_data"
	PostDataCommand  = "post_data"
)

// unknownError stands in for an error with an empty message, so a failed result always has
// a non-empty Error
const unknownError = "unknown error"

var (
	errNotObject = errors.New("expected a single JSON object")
)

// Result is what crosses the command boundary: either a body or a flattened error string.
// A result is successful exactly when Error is empty.
type Result struct {
	Body  string
	Error string
}

// Ok builds a successful result
func Ok(body string) Result {
	return Result{Body: body}
}

// Err flattens err into a failed result
func Err(err error) Result {
	msg := err.Error()
	if msg == "" {
		msg = unknownError
	}
	return Result{Error: msg}
}

func (r Result) OK() bool {
	return r.Error == ""
}

func (r Result) MarshalJSONObject(enc *gojay.Encoder) {
	enc.BoolKey("ok", r.OK())
	if r.OK() {
		enc.StringKey("body", r.Body)
	} else {
		enc.StringKey("error", r.Error)
	}
}

func (r Result) IsNil() bool {
	return false
}

func (r *Result) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "ok":
		var ok bool
		if err := dec.Bool(&ok); err != nil {
			return err
		}
		// {"ok":false} without an error message is still a failure
		if !ok && r.Error == "" {
			r.Error = unknownError
		}
		return nil
	case "body":
		return dec.String(&r.Body)
	case "error":
		return dec.String(&r.Error)
	}
	return nil
}

func (r *Result) NKeys() int {
	return 3
}

// MarshalJSON encodes the result as {"ok":true,"body":"..."} or {"ok":false,"error":"..."}
func (r Result) MarshalJSON() ([]byte, error) {
	return gojay.MarshalJSONObject(r)
}

// bodyString converts a response body for the string boundary. Invalid UTF-8 is replaced
// rather than rejected so a binary response still reaches the caller.
func bodyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// FetchData issues a GET for url
func FetchData(ctx context.Context, url string, config *http.Config) Result {
	body, err := http.Fetch(ctx, url, config)
	if err != nil {
		return Err(err)
	}
	return Ok(bodyString(body))
}

// PostData issues a POST for url with data as the JSON body
func PostData(ctx context.Context, url string, data string, config *http.Config) Result {
	body, err := http.Post(ctx, url, []byte(data), config)
	if err != nil {
		return Err(err)
	}
	return Ok(bodyString(body))
}

// Args are the named arguments of a command invocation
type Args struct {
	URL  string
	Data string
}

func (a *Args) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "url":
		return dec.String(&a.URL)
	case "data":
		return dec.String(&a.Data)
	}
	return nil
}

func (a *Args) NKeys() int {
	return 2
}

func (a Args) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("url", a.URL)
	enc.StringKeyOmitEmpty("data", a.Data)
}

func (a Args) IsNil() bool {
	return false
}

// Handler runs one named command
type Handler func(ctx context.Context, args Args, config *http.Config) Result

var handlers = map[string]Handler{
	FetchDataCommand: func(ctx context.Context, args Args, config *http.Config) Result {
		return FetchData(ctx, args.URL, config)
	},
	PostDataCommand: func(ctx context.Context, args Args, config *http.Config) Result {
		return PostData(ctx, args.URL, args.Data, config)
	},
}

// Names lists the commands Invoke accepts
func Names() []string {
	ret := make([]string, 0, len(handlers))
	for k := range handlers {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// ErrUnknownCommand is returned by Lookup for names that are not registered
type ErrUnknownCommand struct {
	Name string
}

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Name)
}

// Lookup returns the handler for name
func Lookup(name string) (Handler, error) {
	h, ok := handlers[name]
	if !ok {
		return nil, &ErrUnknownCommand{Name: name}
	}
	return h, nil
}

// Invoke decodes payload as the command's JSON arguments, e.g. {"url":"http://..","data":"{}"},
// and runs it. Decoding failures and unknown commands are returned as failed results like any
// request error.
func Invoke(ctx context.Context, name string, payload []byte, config *http.Config) Result {
	h, err := Lookup(name)
	if err != nil {
		return Err(err)
	}

	var args Args
	if err := decodeArgs(payload, &args); err != nil {
		return Err(fmt.Errorf("invalid arguments for %s: %w", name, err))
	}

	log.Debug().Str("command", name).Str("url", args.URL).Msg("invoking command")
	return h(ctx, args, config)
}

// decodeArgs accepts exactly one JSON object. gojay stops at the end of the first object and
// tolerates truncation, so the payload is checked as a whole first.
func decodeArgs(payload []byte, args *Args) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return errNotObject
	}
	return gojay.UnmarshalJSONObject(trimmed, args)
}
