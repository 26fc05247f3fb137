package batch

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/assetnote/rawfetch/pkg/http"
)

const (
	DefaultMaxParallel = 10
)

type Format int

const (
	Unknown Format = iota
	Pretty
	Plain
	JSON
)

var (
	ErrInvalidFormat = fmt.Errorf("unknown format")
)

func FormatFromString(in string) (Format, error) {
	switch strings.ToLower(in) {
	case "pretty":
		return Pretty, nil
	case "plain", "text":
		return Plain, nil
	case "json":
		return JSON, nil
	}
	return Unknown, ErrInvalidFormat
}

type Options struct {
	MaxParallel  int
	Delay        time.Duration
	ShowProgress bool
	IncludeBody  bool
	Output       Format
	Writer       io.Writer
	HTTP         http.Config
}

type Option func(o *Options)

func NewOptions(opts ...Option) *Options {
	o := &Options{
		MaxParallel: DefaultMaxParallel,
		Output:      Pretty,
		Writer:      os.Stdout,
		HTTP:        *http.NewDefaultConfig(),
	}
	for _, v := range opts {
		v(o)
	}
	return o
}

func (o *Options) Validate() error {
	if o.MaxParallel < 1 {
		return fmt.Errorf("max parallel must be at least 1, got %d", o.MaxParallel)
	}
	if o.Writer == nil {
		o.Writer = os.Stdout
	}
	return nil
}

func MaxParallel(n int) Option {
	return func(o *Options) {
		o.MaxParallel = n
	}
}

// Delay waits between dispatching requests
func Delay(d time.Duration) Option {
	return func(o *Options) {
		o.Delay = d
	}
}

func ShowProgress(v bool) Option {
	return func(o *Options) {
		o.ShowProgress = v
	}
}

// IncludeBody adds the response body to plain and json output
func IncludeBody(v bool) Option {
	return func(o *Options) {
		o.IncludeBody = v
	}
}

func OutputFormat(f Format) Option {
	return func(o *Options) {
		o.Output = f
	}
}

func Writer(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

func HTTPConfig(c http.Config) Option {
	return func(o *Options) {
		o.HTTP = c
	}
}
