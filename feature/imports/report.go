package imports

import (
	"time"

	"csv-importer/core/reconcile"
)

// Run modes.
const (
	ModeSync = "sync"
	ModeBulk = "bulk"
)

// Report describes one finished, failed or dry run.
type Report struct {
	RunID      string           `json:"run_id"`
	Profile    string           `json:"profile"`
	Table      string           `json:"table"`
	Mode       string           `json:"mode"`
	Source     string           `json:"source"`
	DryRun     bool             `json:"dry_run"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	DurationMS int64            `json:"duration_ms"`
	Result     reconcile.Result `json:"result"`
	Error      string           `json:"error,omitempty"`
	// Archived is the storage key the report was written to.
	Archived string `json:"archived,omitempty"`
}

func (r *Report) finish(result reconcile.Result, err error) {
	r.FinishedAt = time.Now()
	r.DurationMS = r.FinishedAt.Sub(r.StartedAt).Milliseconds()
	r.Result = result
	if err != nil {
		r.Error = err.Error()
	}
}
