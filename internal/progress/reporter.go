package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter narrates a multi-step catalog import.
type Reporter interface {
	Begin(steps int)
	Advance(entity string, rows int)
	End(err error)
}

// NewReporter picks an interactive bar, or plain log lines when running
// under CI.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineReporter{out: os.Stderr}
	}
	return &BarReporter{}
}

// BarReporter renders a terminal progress bar, one tick per entity.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Begin(steps int) {
	r.bar = progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("importing catalog"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Advance(entity string, rows int) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(fmt.Sprintf("%s (%d rows)", entity, rows))
	_ = r.bar.Add(1)
}

func (r *BarReporter) End(err error) {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
	}
}

// LineReporter writes one line per completed step, suitable for CI logs.
type LineReporter struct {
	out   *os.File
	step  int
	steps int
}

func (r *LineReporter) Begin(steps int) {
	r.steps = steps
	fmt.Fprintf(r.out, "catalog import: %d steps\n", steps)
}

func (r *LineReporter) Advance(entity string, rows int) {
	r.step++
	fmt.Fprintf(r.out, "[%d/%d] %s: %d rows\n", r.step, r.steps, entity, rows)
}

func (r *LineReporter) End(err error) {
	if err != nil {
		fmt.Fprintf(r.out, "catalog import failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "catalog import complete")
}
