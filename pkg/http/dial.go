package http

import (
	"context"
	"net"
	"time"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/valyala/fasthttp"
)

// Exchange is a connection opened for exactly one request/response cycle, bundled with
// the target it was opened for.
type Exchange struct {
	Conn   net.Conn
	Target *Target
}

// Close drops the connection. The exchange must not be used afterwards
func (e *Exchange) Close() error {
	if e.Conn == nil {
		return nil
	}
	err := e.Conn.Close()
	e.Conn = nil
	return err
}

// Dial opens a new TCP connection to the target. Name resolution and the connect itself are
// bounded by the smaller of timeout and the context deadline. A zero timeout falls back to
// fasthttp's default dial timeout. Both IPv4 and IPv6 addresses are tried.
func Dial(ctx context.Context, t *Target, timeout time.Duration) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors2.New(errors2.Connection, err, t.Addr())
	}

	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, errors2.New(errors2.Connection, context.DeadlineExceeded, t.Addr())
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	addr := t.Addr()
	log.Trace().Str("addr", addr).Dur("timeout", timeout).Msg("dialing")

	var (
		conn net.Conn
		err  error
	)
	// dual stack so hosts that only resolve to IPv6 still connect
	if timeout > 0 {
		conn, err = fasthttp.DialDualStackTimeout(addr, timeout)
	} else {
		conn, err = fasthttp.DialDualStack(addr)
	}
	if err != nil {
		return nil, errors2.New(errors2.Connection, err, addr)
	}
	return conn, nil
}

// Connect is the connection half of the pipeline: it decomposes the url, parses the authority
// and dials. The scheme is not checked here, callers decide whether to ValidateURL first.
func Connect(ctx context.Context, url string, timeout time.Duration) (*Exchange, error) {
	t, err := ParseTarget(url)
	if err != nil {
		return nil, err
	}

	conn, err := Dial(ctx, t, timeout)
	if err != nil {
		return nil, err
	}
	return &Exchange{Conn: conn, Target: t}, nil
}
