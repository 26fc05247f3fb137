package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar counts finished requests on w, normally stderr so it does not mix with results
type ProgressBar struct {
	Requests *progressbar.ProgressBar
}

func NewProgress(w io.Writer, max int64) *ProgressBar {
	requestb := progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("requests"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetVisibility(true),
	)
	return &ProgressBar{
		Requests: requestb,
	}
}

// Incr is safe to call on a nil bar
func (b *ProgressBar) Incr(n int64) {
	if b == nil {
		return
	}
	b.Requests.Add64(n)
}
