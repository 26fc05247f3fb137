package command

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/davecgh/go-spew/spew"
	"github.com/francoispqt/gojay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// cannedServer replies to every request with response and records request bodies
func cannedServer(t *testing.T, response string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	bodies := make(chan string, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			var req fasthttp.Request
			if err := req.Read(bufio.NewReader(conn)); err == nil {
				bodies <- string(req.Body())
			}
			conn.Write([]byte(response))
			conn.Close()
		}
	}()
	return "http://" + ln.Addr().String(), bodies
}

func testConfig() *http.Config {
	return http.NewConfig(http.Timeout(2 * time.Second))
}

func TestFetchData(t *testing.T) {
	base, _ := cannedServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")

	res := FetchData(context.Background(), base+"/", testConfig())
	require.True(t, res.OK(), spew.Sdump(res))
	assert.Equal(t, "hello", res.Body)
	assert.Equal(t, "", res.Error)
}

func TestFetchData_Errors(t *testing.T) {
	notFound, _ := cannedServer(t, "HTTP/1.1 404 Not Found\r\n\r\n")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"invalid url", "https://example.com", "Invalid URL"},
		{"invalid port", "http://host:notaport/", "Invalid port"},
		{"status", notFound + "/missing", "HTTP error: HTTP/1.1 404 Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FetchData(context.Background(), tt.url, testConfig())
			assert.False(t, res.OK())
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, "", res.Body)
		})
	}
}

func TestPostData(t *testing.T) {
	base, bodies := cannedServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 11\r\n\r\n{\"id\":\"42\"}")

	res := PostData(context.Background(), base+"/api", `{"a":1}`, testConfig())
	require.True(t, res.OK(), spew.Sdump(res))
	assert.Equal(t, `{"id":"42"}`, res.Body)
	assert.Equal(t, `{"a":1}`, <-bodies)
}

func TestFetchData_InvalidUTF8(t *testing.T) {
	base, _ := cannedServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\na\xffb")

	res := FetchData(context.Background(), base+"/", testConfig())
	require.True(t, res.OK())
	assert.Equal(t, "a�b", res.Body)
}

func TestInvoke(t *testing.T) {
	base, bodies := cannedServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok")

	res := Invoke(context.Background(), FetchDataCommand, []byte(`{"url":"`+base+`/"}`), testConfig())
	require.True(t, res.OK(), spew.Sdump(res))
	assert.Equal(t, "ok", res.Body)
	assert.Equal(t, "", <-bodies)

	res = Invoke(context.Background(), PostDataCommand, []byte(`{"url":"`+base+`/","data":"{\"a\":1}"}`), testConfig())
	require.True(t, res.OK(), spew.Sdump(res))
	assert.Equal(t, `{"a":1}`, <-bodies)
}

func TestInvoke_Errors(t *testing.T) {
	res := Invoke(context.Background(), "delete_data", []byte(`{}`), testConfig())
	assert.False(t, res.OK())
	assert.Equal(t, "unknown command: delete_data", res.Error)

	res = Invoke(context.Background(), FetchDataCommand, []byte(`{"url":`), testConfig())
	assert.False(t, res.OK())
	assert.Contains(t, res.Error, "invalid arguments for fetch_data")
}

func TestInvoke_MalformedArgsSendNothing(t *testing.T) {
	base, bodies := cannedServer(t, "HTTP/1.1 200 OK\r\nContent-Length: 6\r\n\r\nserved")

	tests := []struct {
		name    string
		payload string
	}{
		{"truncated object", `{"url":"` + base + `/"`},
		{"trailing garbage", `{"url":"` + base + `/"} x`},
		{"two objects", `{"url":"` + base + `/"}{"url":"` + base + `/"}`},
		{"array", `[{"url":"` + base + `/"}]`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Invoke(context.Background(), FetchDataCommand, []byte(tt.payload), testConfig())
			assert.False(t, res.OK(), spew.Sdump(res))
			assert.Contains(t, res.Error, "invalid arguments for fetch_data")
		})
	}

	select {
	case <-bodies:
		t.Fatal("a request was sent for malformed arguments")
	case <-time.After(100 * time.Millisecond):
	}

	// surrounding whitespace is fine
	res := Invoke(context.Background(), FetchDataCommand, []byte(" {\"url\":\""+base+"/\"}\n"), testConfig())
	require.True(t, res.OK(), spew.Sdump(res))
	assert.Equal(t, "served", res.Body)
}

func TestResult_JSON(t *testing.T) {
	b, err := Ok("hello").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true,"body":"hello"}`, string(b))

	b, err = Result{Error: "Invalid URL"}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":false,"error":"Invalid URL"}`, string(b))

	var res Result
	require.NoError(t, gojay.UnmarshalJSONObject([]byte(`{"ok":true,"body":"x"}`), &res))
	assert.True(t, res.OK())
	assert.Equal(t, "x", res.Body)

	var failed Result
	require.NoError(t, gojay.UnmarshalJSONObject([]byte(`{"ok":false}`), &failed))
	assert.False(t, failed.OK())
}

func TestResult_OK(t *testing.T) {
	assert.True(t, Result{Body: "x"}.OK())
	assert.True(t, Result{}.OK())
	assert.False(t, Result{Error: "Invalid URL"}.OK())
	assert.True(t, Ok("").OK())

	res := Err(errors.New(""))
	assert.False(t, res.OK())
	assert.Equal(t, "unknown error", res.Error)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"fetch_data", "post_data"}, Names())
}
