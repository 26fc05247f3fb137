/*
Package command is the boundary between the request pipeline and a presentation layer that only deals in strings.

FetchData and PostData take plain strings and hand back a Result holding either the body or the error text. No
structured error crosses this boundary, the error kind is flattened into the message. Invoke dispatches the same two
operations by name with JSON arguments, which is what the bridge server and `rf invoke` use

	res := command.Invoke(ctx, "post_data", []byte(`{"url":"http://127.0.0.1:8080/api","data":"{\"a\":1}"}`), config)
	if !res.OK() {
		fmt.Println(res.Error)
	}
*/
package command
