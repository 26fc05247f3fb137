/*
Package testServer provides a fasthttp server with canned routes for trying rf by hand.

	GET  /                 200 "Welcome!"
	GET  /hello/{name}     200 greeting
	POST /echo             200 with the request body
	GET  /status/{code}    replies with that status code, POST too
	GET  /slow/{duration}  sleeps before replying, e.g. /slow/5s
	GET  /chunked          200 with a chunked body and no Content-Length
	anything else          404

The server is used for testing, and should not be used in a production environment.

Usage

	go run ./cmd/testServer -p 8080
	go run ./cmd/testServer -p 14000-14010 -v debug
*/
package main
