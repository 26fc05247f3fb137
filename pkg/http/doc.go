/*
Package http provides a minimal HTTP/1.1 request issuer built directly on a TCP socket.

A request is a single exchange over a connection that is opened for it and closed afterwards.
There is no connection reuse, no TLS, no redirect following and no chunked decoding. Only GET and
POST are supported, and only the plain http:// scheme.

The pipeline is split into small pieces that can be tested on their own

	SplitURL        http://host:8080/path -> ("host:8080", "/path")
	ParseAuthority  "host:8080"           -> ("host", 8080)
	Dial            opens the TCP connection (fasthttp's dialer, bounded by Config.Timeout)
	Request         encodes the request line and headers with Append* helpers
	ReadResponse    reads the response, framed by Content-Length when the server sends one
	ParseResponse   splits header block and body, Validate rejects anything but HTTP/1.1 200

Fetch and Post compose these. Every failure is a *errors.RequestError tagged with the stage that
failed, so callers can switch on errors.KindOf(err) instead of matching strings.

	body, err := http.Fetch(ctx, "http://127.0.0.1:8080/status", http.NewDefaultConfig())
	if errors.IsKind(err, errors.HTTPStatus) {
		...
	}

Every request is bounded by Config.Timeout and by the context passed in. Cancelling the context
aborts whichever stage is blocked.
*/
package http
