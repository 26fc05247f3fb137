package batch

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type job struct {
		line   int
		method string
		url    string
		body   string
	}
	tests := []struct {
		name    string
		in      string
		vars    map[string]string
		want    []job
		wantErr bool
	}{
		{
			name: "bare url is a get",
			in:   "http://a.test/x\n",
			want: []job{{1, "GET", "http://a.test/x", ""}},
		},
		{
			name: "explicit methods",
			in:   "GET http://a.test/\nPOST http://a.test/p {\"k\": \"v w\"}\n",
			want: []job{
				{1, "GET", "http://a.test/", ""},
				{2, "POST", "http://a.test/p", `{"k": "v w"}`},
			},
		},
		{
			name: "lowercase method",
			in:   "post http://a.test/p {}",
			want: []job{{1, "POST", "http://a.test/p", "{}"}},
		},
		{
			name: "post without body",
			in:   "POST http://a.test/p",
			want: []job{{1, "POST", "http://a.test/p", ""}},
		},
		{
			name: "comments and blanks keep line numbers",
			in:   "# header\n\n   \nhttp://a.test/\n\t# indented comment\nPOST\thttp://b.test/ 1\n",
			want: []job{
				{4, "GET", "http://a.test/", ""},
				{6, "POST", "http://b.test/", "1"},
			},
		},
		{
			name: "vars are expanded",
			in:   "POST http://{{host}}/api/{{ version }} {\"user\":\"{{user}}\"}",
			vars: map[string]string{"host": "127.0.0.1:8080", "version": "v2", "user": "bob"},
			want: []job{{1, "POST", "http://127.0.0.1:8080/api/v2", `{"user":"bob"}`}},
		},
		{
			name: "unknown vars are left alone",
			in:   "http://{{host}}/{{missing}}",
			vars: map[string]string{"host": "a.test"},
			want: []job{{1, "GET", "http://a.test/{{missing}}", ""}},
		},
		{
			name: "no vars skips templating",
			in:   "http://{{host}}/",
			want: []job{{1, "GET", "http://{{host}}/", ""}},
		},
		{
			name:    "unsupported method",
			in:      "PUT http://a.test/ {}",
			wantErr: true,
		},
		{
			name:    "get with body",
			in:      "GET http://a.test/ {}",
			wantErr: true,
		},
		{
			name:    "unterminated var",
			in:      "http://{{host/",
			vars:    map[string]string{"host": "a.test"},
			wantErr: true,
		},
		{
			name: "empty input",
			in:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.in), tt.vars)
			if tt.wantErr {
				assert.Error(t, err)
				var perr *ParseError
				assert.True(t, errors.As(err, &perr))
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.line, got[i].Line)
				assert.Equal(t, w.method, got[i].Method.String())
				assert.Equal(t, w.url, got[i].URL)
				assert.Equal(t, w.body, string(got[i].Body))
				assert.False(t, got[i].ID.IsNil())
			}
		})
	}
}

func TestParse_ErrorLine(t *testing.T) {
	_, err := Parse(strings.NewReader("http://a.test/\n\nDELETE http://a.test/\n"), nil)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.True(t, errors.Is(err, http.ErrUnsupportedMethod))
}

func TestParse_UniqueIDs(t *testing.T) {
	got, err := Parse(strings.NewReader("http://a.test/\nhttp://a.test/\n"), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestParseFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "batch")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "requests.txt")
	require.NoError(t, ioutil.WriteFile(filename, []byte("http://a.test/\n"), 0644))

	got, err := ParseFile(filename, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = ParseFile(filepath.Join(dir, "missing.txt"), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestParseVars(t *testing.T) {
	got, err := ParseVars([]string{"host=a.test", "q=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"host": "a.test", "q": "a=b", "empty": ""}, got)

	_, err = ParseVars([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseVars([]string{"=x"})
	assert.Error(t, err)
}
