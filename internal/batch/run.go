package batch

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	errors2 "github.com/assetnote/rawfetch/pkg/errors"
	"github.com/assetnote/rawfetch/pkg/http"
	"github.com/assetnote/rawfetch/pkg/log"
	"github.com/hashicorp/go-multierror"
)

// Result is the outcome of one job
type Result struct {
	Job      *Job
	Body     []byte
	Err      error
	Duration time.Duration
}

func (r *Result) OK() bool {
	return r.Err == nil
}

// Status is "OK" for a 200, otherwise the name of the stage that failed
func (r *Result) Status() string {
	if r.Err == nil {
		return "OK"
	}
	return errors2.KindOf(r.Err).String()
}

// Run executes every job on its own connection, at most MaxParallel at a time.
// Results are returned in job order. The error aggregates every failed job; it is not a reason
// to ignore the results.
func Run(ctx context.Context, jobs []*Job, opts ...Option) ([]*Result, error) {
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var bar *ProgressBar
	if o.ShowProgress {
		bar = NewProgress(os.Stderr, int64(len(jobs)))
	}

	var (
		results = make([]*Result, len(jobs))
		sem     = make(chan struct{}, o.MaxParallel)
		wg      sync.WaitGroup
		start   = time.Now()
	)

dispatch:
	for i, j := range jobs {
		if i > 0 && o.Delay > 0 {
			select {
			case <-ctx.Done():
				break dispatch
			case <-time.After(o.Delay):
			}
		}

		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, j *Job) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = runJob(ctx, j, &o.HTTP)
			bar.Incr(1)
		}(i, j)
	}
	wg.Wait()

	var (
		merr   *multierror.Error
		failed int
	)
	for i, r := range results {
		if r == nil {
			// never dispatched, the context ended first
			r = &Result{Job: jobs[i], Err: errors2.New(errors2.Connection, ctx.Err(), "not dispatched").WithURL(jobs[i].URL)}
			results[i] = r
		}
		if r.Err != nil {
			failed++
			merr = multierror.Append(merr, fmt.Errorf("line %d: %w", r.Job.Line, r.Err))
		}
	}

	log.Debug().
		Int("jobs", len(jobs)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("batch complete")

	return results, merr.ErrorOrNil()
}

func runJob(ctx context.Context, j *Job, config *http.Config) *Result {
	start := time.Now()
	body, err := http.Do(ctx, j.Method, j.URL, j.Body, config)

	log.Trace().
		Str("id", j.ID.String()).
		Str("job", j.String()).
		Err(err).
		Msg("job complete")

	return &Result{Job: j, Body: body, Err: err, Duration: time.Since(start)}
}

// RunFile parses filename, runs it and renders the results to the configured writer
func RunFile(ctx context.Context, filename string, vars map[string]string, opts ...Option) error {
	jobs, err := ParseFile(filename, vars)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		log.Info().Str("file", filename).Msg("no requests found")
		return nil
	}

	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return err
	}
	results, runErr := Run(ctx, jobs, opts...)
	if results == nil {
		return runErr
	}

	if err := Render(o.Writer, results, o.Output, o.IncludeBody); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}
	return runErr
}
