package http

import (
	"bytes"
	"context"
	"time"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/log"
)

const (
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 32 << 20
)

var (
	// aLongTimeAgo is a deadline in the past, used to unblock a conn when the context is cancelled
	aLongTimeAgo = time.Unix(1, 0)
)

// Config provides all the options available to a request
type Config struct {
	// Timeout bounds the whole exchange: dial, write and read. 0 disables the deadline on the
	// connection, though dialing still uses fasthttp's default dial timeout
	Timeout time.Duration `toml:"timeout" json:"timeout" mapstructure:"timeout"`
	// MaxResponseBytes caps the raw response (headers and body). 0 means no cap
	MaxResponseBytes int `toml:"max_response_bytes" json:"max_response_bytes" mapstructure:"max_response_bytes"`
	// LegacyPostScheme skips the http:// check for POST requests, so a POST url without a scheme
	// is decomposed as is. GET is always checked
	LegacyPostScheme bool `toml:"legacy_post_scheme" json:"legacy_post_scheme" mapstructure:"legacy_post_scheme"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Timeout:          DefaultTimeout,
		MaxResponseBytes: DefaultMaxResponseBytes,
	}
}

type ConfigOption func(*Config)

func Timeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

func MaxResponseBytes(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResponseBytes = n
	}
}

func LegacyPostScheme(v bool) ConfigOption {
	return func(c *Config) {
		c.LegacyPostScheme = v
	}
}

// NewConfig applies opts over the default config
func NewConfig(opts ...ConfigOption) *Config {
	c := NewDefaultConfig()
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch issues a GET for url and returns the body of a 200 response
func Fetch(ctx context.Context, url string, config *Config) ([]byte, error) {
	return Do(ctx, GET, url, nil, config)
}

// Post issues a POST with data as a JSON body and returns the body of a 200 response
func Post(ctx context.Context, url string, data []byte, config *Config) ([]byte, error) {
	return Do(ctx, POST, url, data, config)
}

// Do runs one full exchange on a fresh connection: validate, connect, write, read.
// The connection is closed before returning. Errors are *errors.RequestError with the url set.
func Do(ctx context.Context, method Method, url string, body []byte, config *Config) ([]byte, error) {
	if config == nil {
		config = NewDefaultConfig()
	}

	ret, err := do(ctx, method, url, body, config)
	if err != nil {
		if rerr, ok := err.(*errors2.RequestError); ok {
			rerr.WithURL(url)
		}
		log.Debug().Str("method", method.String()).Str("url", url).Err(err).Msg("request failed")
		return nil, err
	}
	return ret, nil
}

func do(ctx context.Context, method Method, url string, body []byte, config *Config) ([]byte, error) {
	if !(config.LegacyPostScheme && bytes.Equal(method, POST)) {
		if err := ValidateURL(url); err != nil {
			return nil, err
		}
	}

	ex, err := Connect(ctx, url, config.Timeout)
	if err != nil {
		return nil, err
	}
	defer ex.Close()

	req := AcquireRequest()
	defer ReleaseRequest(req)
	req.Method = method
	req.Path = ex.Target.Path
	req.Host = ex.Target.Hostname
	req.Body = body

	return ex.RoundTrip(ctx, req, config)
}

// RoundTrip writes req and decodes the response. The connection deadline is set from
// config.Timeout, and cancelling ctx unblocks whichever call is in flight.
func (e *Exchange) RoundTrip(ctx context.Context, req *Request, config *Config) ([]byte, error) {
	if config.Timeout > 0 {
		if err := e.Conn.SetDeadline(time.Now().Add(config.Timeout)); err != nil {
			return nil, errors2.New(errors2.Write, err, "setting deadline")
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	conn := e.Conn
	go func() {
		select {
		case <-ctx.Done():
			conn.SetDeadline(aLongTimeAgo)
		case <-stop:
		}
	}()

	log.Trace().Object("target", e.Target).Int("contentlength", req.ContentLength()).Msg("writing request")
	if _, err := req.WriteTo(e.Conn); err != nil {
		return nil, contextErr(ctx, errors2.Write, err)
	}

	body, err := DecodeResponse(e.Conn, config.MaxResponseBytes)
	if err != nil {
		if errors2.IsKind(err, errors2.HTTPStatus) {
			return nil, err
		}
		return nil, contextErr(ctx, errors2.Read, err)
	}
	return body, nil
}

// contextErr replaces the deadline error from an aborted conn with the context's own error,
// keeping the stage kind
func contextErr(ctx context.Context, kind errors2.Kind, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return errors2.New(kind, cerr, err.Error())
	}
	return err
}
