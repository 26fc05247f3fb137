package bridge

import (
	"context"
	"net"
	"time"

	"github.com/assetnote/rawfetch/pkg/command"
	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/fasthttp/router"
	"github.com/francoispqt/gojay"
	"github.com/valyala/fasthttp"
)

const (
	DefaultAddr = "127.0.0.1:7878"
	// MaxPayloadSize bounds the JSON arguments of an invocation
	MaxPayloadSize = 4 << 20

	contentTypeJSON = "application/json"
)

// Server exposes the commands over loopback HTTP
type Server struct {
	config *http.Config
	router *router.Router
	// base is the context every invocation runs under, set by Serve
	base context.Context
}

func New(config *http.Config) *Server {
	if config == nil {
		config = http.NewDefaultConfig()
	}
	s := &Server{
		config: config,
		router: router.New(),
		base:   context.Background(),
	}
	s.router.GET("/healthz", s.health)
	s.router.GET("/commands", s.commands)
	s.router.POST("/invoke/{command}", s.invoke)
	return s
}

func (s *Server) Handler() fasthttp.RequestHandler {
	return s.router.Handler
}

// Serve accepts on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.base = ctx
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "rawfetch",
		MaxRequestBodySize: MaxPayloadSize,
		ReadTimeout:        10 * time.Second,
		Logger:             fasthttpLogger{},
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("bridge listening")
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down bridge")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errc
	case err := <-errc:
		return err
	}
}

// ListenAndServe listens on addr and calls Serve
func ListenAndServe(ctx context.Context, addr string, config *http.Config) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return New(config).Serve(ctx, ln)
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.WriteString("ok")
}

type names []string

func (n names) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range n {
		enc.String(v)
	}
}

func (n names) IsNil() bool {
	return len(n) == 0
}

func (s *Server) commands(ctx *fasthttp.RequestCtx) {
	b, err := gojay.MarshalJSONArray(names(command.Names()))
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(b)
}

// invoke runs the named command with the request body as its JSON arguments. Request failures
// are still a 200; the result's ok field carries the outcome
func (s *Server) invoke(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("command").(string)

	status := fasthttp.StatusOK
	if _, err := command.Lookup(name); err != nil {
		status = fasthttp.StatusNotFound
	}

	start := time.Now()
	res := command.Invoke(s.base, name, ctx.PostBody(), s.config)

	log.Debug().
		Str("command", name).
		Str("remote", ctx.RemoteAddr().String()).
		Bool("ok", res.OK()).
		Dur("duration", time.Since(start)).
		Msg("invoke")

	b, err := res.MarshalJSON()
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(b)
}

type fasthttpLogger struct{}

func (fasthttpLogger) Printf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}
