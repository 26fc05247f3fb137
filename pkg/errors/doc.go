/*
The errors package provides the tagged error type returned by every stage of the request pipeline,
and utilities for logging nested and aggregated errors.

Each failure carries a Kind so callers and tests can branch on the stage that failed rather than on
the message text. The message itself is kept as the underlying cause so it can be handed across the
command boundary unchanged.

Usage

	import errors2 "github.com/assetnote/rawfetch/pkg/errors"

	...

	body, err := http.Fetch(ctx, url, cfg)
	switch errors2.KindOf(err) {
	case errors2.HTTPStatus:
		// the server answered, but not with a 200
	case errors2.Connection:
		// nothing listening, or DNS failed
	}

Batch runs aggregate failures with multierror. PrintError walks the aggregate and logs each
RequestError with its kind and url

	if err := batch.Run(ctx, file, opts...); err != nil {
		errors2.PrintError(err, 0)
	}

*/
package errors
