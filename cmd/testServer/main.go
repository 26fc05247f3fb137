package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

var (
	requestCount count32
)

type count32 struct {
	val uint32
}

func (c *count32) increment() {
	atomic.AddUint32(&c.val, 1)
}

func (c *count32) get() uint32 {
	return atomic.LoadUint32(&c.val)
}

func PreRequest(ctx *fasthttp.RequestCtx) {
	requestCount.increment()
	log.Debug().
		Bytes("method", ctx.Method()).
		Bytes("uri", ctx.RequestURI()).
		Bytes("host", ctx.Host()).
		Int("body", len(ctx.PostBody())).
		Msg("request")
}

func Index(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.WriteString("Welcome!")
}

func Hello(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	fmt.Fprintf(ctx, "Hello, %s!\n", ctx.UserValue("name"))
}

// Echo replies with the request body and content type
func Echo(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.SetContentTypeBytes(ctx.Request.Header.ContentType())
	ctx.SetBody(ctx.PostBody())
}

// Status replies with the status code in the path, e.g. /status/503
func Status(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	code, err := strconv.Atoi(ctx.UserValue("code").(string))
	if err != nil || code < 100 || code > 599 {
		ctx.Error("invalid status code", fasthttp.StatusBadRequest)
		return
	}
	ctx.SetStatusCode(code)
	fmt.Fprintf(ctx, "status %d\n", code)
}

// Slow sleeps before replying, for exercising client timeouts
func Slow(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	d, err := time.ParseDuration(ctx.UserValue("duration").(string))
	if err != nil {
		ctx.Error("invalid duration", fasthttp.StatusBadRequest)
		return
	}
	time.Sleep(d)
	ctx.WriteString("slow")
}

// Chunked streams a body without a Content-Length
func Chunked(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.SetBodyStream(strings.NewReader("streamed body"), -1)
}

func NotFound(ctx *fasthttp.RequestCtx) {
	PreRequest(ctx)

	ctx.Error("not found", fasthttp.StatusNotFound)
}

func StatsFunc(end <-chan bool) {
	// rolling average
	lastRequest := time.Now()
	lastRequestCount := requestCount.get()
	rpsPeak := float64(0)
	for {
		select {
		case <-end:
			fmt.Fprintln(os.Stderr, "\nTerminating.")
			return
		case <-time.After(time.Second):
			timeDiff := time.Since(lastRequest).Seconds()
			curRequestCount := requestCount.get()
			requestCountDiff := curRequestCount - lastRequestCount
			rps := float64(requestCountDiff) / timeDiff
			if rps > rpsPeak {
				rpsPeak = rps
			}

			fmt.Fprintf(os.Stderr, "Total Requests: %d. RPS: %f. Peak: %f\t\t\t\t\r", curRequestCount, rps, rpsPeak)
			lastRequest = time.Now()
			lastRequestCount = curRequestCount
		}
	}
}

func main() {
	var (
		ports   string
		verbose string
	)
	flag.StringVar(&ports, "p", "8080", "port or range of ports to start servers on, e.g. 8080 or 8080-8090")
	flag.StringVar(&verbose, "v", "info", "log level")
	flag.Parse()

	if err := log.SetLevelString(verbose); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}

	startPort, endPort, err := parsePorts(ports)
	if err != nil {
		log.Fatal().Err(err).Str("ports", ports).Msg("Invalid port range. Format should be <int> or <int>-<int>")
	}

	r := router.New()
	r.GET("/", Index)
	r.GET("/hello/{name}", Hello)
	r.POST("/echo", Echo)
	r.GET("/status/{code}", Status)
	r.POST("/status/{code}", Status)
	r.GET("/slow/{duration}", Slow)
	r.GET("/chunked", Chunked)
	r.NotFound = NotFound

	var wg sync.WaitGroup
	for i := startPort; i <= endPort; i++ {
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			host := fmt.Sprintf(":%d", port)
			log.Info().Str("addr", host).Msg("starting server")
			log.Fatal().Err(fasthttp.ListenAndServe(host, r.Handler)).Msg("failed to start server")
		}(i)
	}
	statsFunc := make(chan bool)

	go StatsFunc(statsFunc)
	wg.Wait()

	statsFunc <- true
	close(statsFunc)
}

func parsePorts(in string) (int, int, error) {
	parts := strings.Split(in, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("too many parts")
	}

	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return start, start, nil
	}

	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("end port %d before start port %d", end, start)
	}
	return start, end, nil
}
