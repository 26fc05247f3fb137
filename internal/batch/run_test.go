package batch

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type testServer struct {
	base     string
	inflight int32
	peak     int32
}

// newTestServer serves /ok, /echo and /slow; everything else is a 404
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)

	ts := &testServer{base: "http://" + ln.Addr().String()}
	s := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			n := atomic.AddInt32(&ts.inflight, 1)
			defer atomic.AddInt32(&ts.inflight, -1)
			for {
				p := atomic.LoadInt32(&ts.peak)
				if n <= p || atomic.CompareAndSwapInt32(&ts.peak, p, n) {
					break
				}
			}

			switch string(ctx.Path()) {
			case "/ok":
				ctx.SetBodyString("ok")
			case "/echo":
				ctx.SetBody(ctx.PostBody())
			case "/slow":
				time.Sleep(50 * time.Millisecond)
				ctx.SetBodyString("slow")
			default:
				ctx.SetStatusCode(fasthttp.StatusNotFound)
			}
		},
	}
	go s.Serve(ln)
	t.Cleanup(func() { s.Shutdown() })
	return ts
}

func mustParse(t *testing.T, in string, vars map[string]string) []*Job {
	t.Helper()
	jobs, err := Parse(strings.NewReader(in), vars)
	require.NoError(t, err)
	return jobs
}

func testHTTPConfig() http.Config {
	return *http.NewConfig(http.Timeout(2 * time.Second))
}

func TestRun(t *testing.T) {
	ts := newTestServer(t)
	jobs := mustParse(t, `
{{base}}/ok
POST {{base}}/echo {"a":1}
GET {{base}}/missing
`, map[string]string{"base": ts.base})

	results, err := Run(context.Background(), jobs, HTTPConfig(testHTTPConfig()))
	require.Len(t, results, 3)

	assert.True(t, results[0].OK())
	assert.Equal(t, "ok", string(results[0].Body))
	assert.Equal(t, "OK", results[0].Status())

	assert.True(t, results[1].OK())
	assert.Equal(t, `{"a":1}`, string(results[1].Body))

	assert.False(t, results[2].OK())
	assert.True(t, errors2.IsKind(results[2].Err, errors2.HTTPStatus))
	assert.Equal(t, "HttpStatusError", results[2].Status())

	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, merr.Errors[0].Error(), "line 4")
}

func TestRun_AllOK(t *testing.T) {
	ts := newTestServer(t)
	jobs := mustParse(t, "{{base}}/ok\n{{base}}/ok\n", map[string]string{"base": ts.base})

	results, err := Run(context.Background(), jobs, HTTPConfig(testHTTPConfig()))
	assert.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.OK())
	}
}

func TestRun_MaxParallel(t *testing.T) {
	ts := newTestServer(t)
	jobs := mustParse(t, strings.Repeat("{{base}}/slow\n", 8), map[string]string{"base": ts.base})

	results, err := Run(context.Background(), jobs, MaxParallel(2), HTTPConfig(testHTTPConfig()))
	require.NoError(t, err)
	assert.Len(t, results, 8)
	peak := atomic.LoadInt32(&ts.peak)
	assert.True(t, peak <= 2, "peak concurrency %d", peak)
}

func TestRun_InvalidOptions(t *testing.T) {
	_, err := Run(context.Background(), nil, MaxParallel(0))
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ts := newTestServer(t)
	jobs := mustParse(t, "{{base}}/ok\n{{base}}/ok\n", map[string]string{"base": ts.base})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, jobs, HTTPConfig(testHTTPConfig()))
	require.Error(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.OK())
		assert.Equal(t, jobs[0].URL, r.Job.URL)
	}
}

func TestRunFile(t *testing.T) {
	ts := newTestServer(t)
	dir, err := ioutil.TempDir("", "batch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "requests.txt")
	require.NoError(t, ioutil.WriteFile(filename, []byte("# smoke\n{{base}}/ok\n"), 0644))

	var out bytes.Buffer
	err = RunFile(context.Background(), filename, map[string]string{"base": ts.base},
		Writer(&out), OutputFormat(Plain), HTTPConfig(testHTTPConfig()))
	require.NoError(t, err)

	fields := strings.Split(strings.TrimRight(out.String(), "\n"), "\t")
	require.Len(t, fields, 7)
	assert.Equal(t, "2", fields[0])
	assert.Equal(t, "GET", fields[1])
	assert.Equal(t, ts.base+"/ok", fields[2])
	assert.Equal(t, "OK", fields[3])
	assert.Equal(t, "2", fields[4])
}

func TestRunFile_Empty(t *testing.T) {
	dir, err := ioutil.TempDir("", "batch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "requests.txt")
	require.NoError(t, ioutil.WriteFile(filename, []byte("# nothing\n"), 0644))

	var out bytes.Buffer
	assert.NoError(t, RunFile(context.Background(), filename, nil, Writer(&out)))
	assert.Equal(t, 0, out.Len())
}

func TestRunFile_ValidatesOptions(t *testing.T) {
	ts := newTestServer(t)
	dir, err := ioutil.TempDir("", "batch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "requests.txt")
	require.NoError(t, ioutil.WriteFile(filename, []byte("{{base}}/ok\n"), 0644))
	vars := map[string]string{"base": ts.base}

	// a nil writer falls back to stdout instead of panicking in Render
	assert.NotPanics(t, func() {
		err = RunFile(context.Background(), filename, vars,
			Writer(nil), OutputFormat(JSON), HTTPConfig(testHTTPConfig()))
	})
	assert.NoError(t, err)

	err = RunFile(context.Background(), filename, vars, MaxParallel(0), HTTPConfig(testHTTPConfig()))
	assert.Error(t, err)
}
