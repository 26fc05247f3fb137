/*
Package context provides utilities wrapping the native go/context package
for catching and handling multiple interrupts.

The CLI passes this context into every request so that the first Ctrl-C aborts whatever connect,
write or read is blocked, and a second Ctrl-C exits outright

	import "github.com/assetnote/rawfetch/pkg/context"

	...

	res := command.FetchData(context.Context(), url, config)
*/
package context
