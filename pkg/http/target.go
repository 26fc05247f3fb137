package http

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

var (
	bHTTP = []byte("http://")
)

// Target is a decomposed URL: where to connect and what path to ask for.
//
// The Host header sent for a target is the bare Hostname, without the port.
type Target struct {
	Hostname string // Hostname is the bare hostname without the port
	Port     uint16 // Port defaults to 80
	Path     string // Path always starts with /
}

// ParseTarget runs the url through SplitURL and ParseAuthority.
// The scheme is not validated here, see ValidateURL
func ParseTarget(url string) (*Target, error) {
	authority, path := SplitURL(url)
	host, port, err := ParseAuthority(authority)
	if err != nil {
		return nil, err
	}
	return &Target{Hostname: host, Port: port, Path: path}, nil
}

// AppendAddr appends host:port, the address the connection is opened to
func (t *Target) AppendAddr(buf []byte) []byte {
	buf = append(buf, t.Hostname...)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, uint64(t.Port), 10)
	return buf
}

// Addr returns host:port
func (t *Target) Addr() string {
	w := bytebufferpool.Get()
	ret := string(t.AppendAddr(w.B))
	bytebufferpool.Put(w)
	return ret
}

// appendColonPort will append :1234 only if its not the default port
func (t *Target) appendColonPort(buf []byte) []byte {
	if t.Port == DefaultPort {
		return buf
	}
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, uint64(t.Port), 10)
	return buf
}

// AppendBytes appends the normalised url, e.g. http://foo.com:8080/bar
func (t *Target) AppendBytes(b []byte) []byte {
	b = append(b, bHTTP...)
	b = append(b, t.Hostname...)
	b = t.appendColonPort(b)
	b = append(b, t.Path...)
	return b
}

func (t *Target) String() string {
	w := bytebufferpool.Get()
	ret := string(t.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}

func (t Target) MarshalZerologObject(e *zerolog.Event) {
	e.Str("host", t.Hostname).
		Uint16("port", t.Port).
		Str("path", t.Path)
}
