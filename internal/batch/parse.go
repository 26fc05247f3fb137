package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/valyala/fasttemplate"
)

const (
	varStartTag = "{{"
	varEndTag   = "}}"
)

// Job is one request line of a batch file
type Job struct {
	ID     ksuid.KSUID
	Line   int
	Method http.Method
	URL    string
	Body   []byte
}

func (j *Job) String() string {
	return fmt.Sprintf("%d: %s %s", j.Line, j.Method, j.URL)
}

// ParseError points at the offending line of a batch file
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFile opens filename and parses it with Parse
func ParseFile(filename string, vars map[string]string) ([]*Job, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer f.Close()

	return Parse(f, vars)
}

// Parse reads one request per line in the form
//
//	METHOD URL [BODY]
//	URL
//
// A bare URL is a GET. Everything after the url is the body, verbatim. Blank lines and lines
// starting with # are skipped. {{name}} placeholders are replaced from vars before parsing,
// unknown placeholders are left alone.
func Parse(r io.Reader, vars map[string]string) ([]*Job, error) {
	var (
		ret    []*Job
		lineno int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		expanded, err := expandVars(text, vars)
		if err != nil {
			return nil, &ParseError{Line: lineno, Text: text, Err: err}
		}

		job, err := parseLine(expanded)
		if err != nil {
			return nil, &ParseError{Line: lineno, Text: text, Err: err}
		}
		job.Line = lineno
		ret = append(ret, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read batch input")
	}

	log.Debug().Int("jobs", len(ret)).Int("lines", lineno).Msg("parsed batch")
	return ret, nil
}

func parseLine(text string) (*Job, error) {
	first, rest := cut(text)
	if rest == "" {
		return &Job{ID: ksuid.New(), Method: http.GET, URL: first}, nil
	}

	method, err := http.MethodFromString(first)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, first)
	}

	url, body := cut(rest)
	job := &Job{ID: ksuid.New(), Method: method, URL: url}
	if body != "" {
		if !method.HasBody() {
			return nil, fmt.Errorf("%s request cannot have a body", method)
		}
		job.Body = []byte(body)
	}
	return job, nil
}

// cut splits s at the first run of spaces or tabs
func cut(s string) (string, string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func expandVars(text string, vars map[string]string) (string, error) {
	if len(vars) == 0 || !strings.Contains(text, varStartTag) {
		return text, nil
	}

	t, err := fasttemplate.NewTemplate(text, varStartTag, varEndTag)
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}

	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := vars[strings.TrimSpace(tag)]; ok {
			return w.Write([]byte(v))
		}
		return w.Write([]byte(varStartTag + tag + varEndTag))
	}), nil
}

// ParseVars turns key=value pairs into a vars map
func ParseVars(pairs []string) (map[string]string, error) {
	ret := make(map[string]string, len(pairs))
	for _, p := range pairs {
		i := strings.IndexByte(p, '=')
		if i <= 0 {
			return nil, fmt.Errorf("invalid var %q, expected key=value", p)
		}
		ret[p[:i]] = p[i+1:]
	}
	return ret, nil
}
