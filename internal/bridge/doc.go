/*
Package bridge serves the fetch_data and post_data commands over loopback HTTP so a presentation
layer in another process can call them without linking this module.

	POST /invoke/{command}   body is the JSON arguments, e.g. {"url":"http://host/path","data":"{}"}
	GET  /commands           JSON array of command names
	GET  /healthz            "ok"

An invocation always answers with a JSON result, {"ok":true,"body":"..."} or
{"ok":false,"error":"..."}. Unknown commands answer 404 with the same shape.
*/
package bridge
