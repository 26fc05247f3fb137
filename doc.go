/*
Package rawfetch issues single HTTP/1.1 GET and POST requests over a raw TCP connection and returns
the body of a 200 response.

There are no exports in the root package.

The packages are layered:
	- pkg/http - url decomposition, connecting, request encoding, response decoding and Fetch/Post
	- pkg/errors - the tagged RequestError naming the stage that failed
	- pkg/command - fetch_data and post_data with results flattened to strings for a presentation layer
	- internal/batch - runs a file of requests concurrently and renders the results
	- internal/bridge - serves the commands over loopback http

CLI tools part of `cmd/` include:
	- rawfetch - compiled into `rf`
	- testServer - a server with canned routes for trying rf by hand
*/
package rawfetch
