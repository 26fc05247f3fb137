package http

import (
	"strconv"
	"strings"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
)

const (
	// SchemePrefix is the only scheme supported. The match is case sensitive
	SchemePrefix = "http://"
	// DefaultPort is used when the authority has no :port suffix
	DefaultPort uint16 = 80
)

// ValidateURL returns an InvalidURL error unless url starts with http://
func ValidateURL(url string) error {
	if !strings.HasPrefix(url, SchemePrefix) {
		return errors2.New(errors2.InvalidURL, errors2.ErrInvalidURL, "missing http:// prefix").WithURL(url)
	}
	return nil
}

// SplitURL strips the http:// prefix if present and splits the remainder on the first slash.
//
//	http://foo.com:8080/a/b -> ("foo.com:8080", "/a/b")
//	http://foo.com          -> ("foo.com", "/")
//
// The authority is not validated and may be empty.
func SplitURL(url string) (authority string, path string) {
	rest := strings.TrimPrefix(url, SchemePrefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], rest[i:]
	}
	return rest, "/"
}

// ParseAuthority splits host:port on the first colon. A missing port defaults to 80.
// A port that is not a valid uint16 yields a Parse error.
func ParseAuthority(authority string) (host string, port uint16, err error) {
	i := strings.IndexByte(authority, ':')
	if i < 0 {
		return authority, DefaultPort, nil
	}

	p, perr := strconv.ParseUint(authority[i+1:], 10, 16)
	if perr != nil {
		return "", 0, errors2.New(errors2.Parse, errors2.ErrInvalidPort, authority)
	}
	return authority[:i], uint16(p), nil
}
