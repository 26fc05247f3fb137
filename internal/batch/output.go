package batch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/francoispqt/gojay"
	"github.com/olekukonko/tablewriter"
)

// maxCell keeps long errors and urls from blowing out the pretty table
const maxCell = 80

// Render writes results to w in the given format. Plain and JSON write one result per line.
func Render(w io.Writer, results []*Result, format Format, includeBody bool) error {
	switch format {
	case Plain:
		for _, v := range results {
			fields := []string{
				strconv.Itoa(v.Job.Line),
				v.Job.Method.String(),
				v.Job.URL,
				v.Status(),
				strconv.Itoa(len(v.Body)),
				v.Duration.Round(time.Millisecond).String(),
				errString(v.Err),
			}
			if includeBody {
				fields = append(fields, strconv.Quote(string(v.Body)))
			}
			if _, err := fmt.Fprintln(w, TabString(fields...)); err != nil {
				return err
			}
		}
	case JSON:
		for _, v := range results {
			b, err := gojay.MarshalJSONObject(&jsonResult{Result: v, includeBody: includeBody})
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			b = append(b, '\n')
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	case Pretty:
		fallthrough
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"line", "method", "url", "result", "size", "duration", "error"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetAutoWrapText(false)
		for _, v := range results {
			size := ""
			if v.OK() {
				size = humanize.Bytes(uint64(len(v.Body)))
			}
			table.Append([]string{
				strconv.Itoa(v.Job.Line),
				v.Job.Method.String(),
				truncate(v.Job.URL),
				v.Status(),
				size,
				v.Duration.Round(time.Millisecond).String(),
				truncate(errString(v.Err)),
			})
		}
		table.Render()
	}
	return nil
}

func TabString(fields ...string) string {
	return strings.Join(fields, "\t")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func truncate(s string) string {
	if len(s) <= maxCell {
		return s
	}
	return s[:maxCell-3] + "..."
}

type jsonResult struct {
	*Result
	includeBody bool
}

func (r *jsonResult) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("id", r.Job.ID.String())
	enc.IntKey("line", r.Job.Line)
	enc.StringKey("method", r.Job.Method.String())
	enc.StringKey("url", r.Job.URL)
	enc.BoolKey("ok", r.OK())
	enc.IntKey("length", len(r.Body))
	enc.Int64Key("duration_ms", r.Duration.Milliseconds())
	if r.Err != nil {
		enc.StringKey("kind", r.Status())
		enc.StringKey("error", r.Err.Error())
	}
	if r.includeBody && r.OK() {
		enc.StringKey("body", string(r.Body))
	}
}

func (r *jsonResult) IsNil() bool {
	return r == nil || r.Result == nil
}
