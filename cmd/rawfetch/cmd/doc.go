/*
Package cmd provides all the commands for the rf binary.

Each command lives in its own file. The global flags in root.go set logging and the request
config (timeout, response cap, legacy POST scheme handling), which can also come from
$HOME/.rawfetch.yaml or RAWFETCH_* environment variables.

Usage

	rf get http://127.0.0.1:8080/
	rf post http://127.0.0.1:8080/echo '{"a":1}'
	rf batch requests.txt --var host=127.0.0.1:8080
	rf serve

For manual checks, a local server with canned routes can be started with

	go run ./cmd/testServer -p 8080
*/
package cmd
