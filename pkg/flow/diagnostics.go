package flow

import (
	"fmt"
	"strings"
	"time"
)

// StateLap records one state's execution for diagnostics: how long it took
// and what it observed (e.g. which candidate locator succeeded).
type StateLap struct {
	State   State
	Elapsed time.Duration
	Detail  string
}

// Diagnostics accumulates per-state timing and observations for one run.
// Owned exclusively by the controller and handed out once the flow ends;
// on abort it names the failing state for the operator.
type Diagnostics struct {
	// RunID ties the diagnostics to this execution's log file.
	RunID string

	// Laps are the executed states in order.
	Laps []StateLap

	// Terminal is StateDone or StateAborted.
	Terminal State
}

func newDiagnostics(runID string) *Diagnostics {
	return &Diagnostics{RunID: runID}
}

func (d *Diagnostics) record(state State, elapsed time.Duration, detail string) {
	d.Laps = append(d.Laps, StateLap{State: state, Elapsed: elapsed.Round(time.Millisecond), Detail: detail})
}

// Summary renders a compact multi-line account of the run.
func (d *Diagnostics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %s\n", d.RunID, d.Terminal)
	for _, lap := range d.Laps {
		fmt.Fprintf(&b, "  %-12s %8s  %s\n", lap.State, lap.Elapsed, lap.Detail)
	}
	return b.String()
}
