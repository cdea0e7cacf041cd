package build

import (
	"fmt"
	"sync"
	"time"
)

// Report collects the outcome of one build run. Page errors accumulate
// instead of aborting the run, so one broken page does not hide errors in
// the rest of the site.
type Report struct {
	mu          sync.Mutex
	startTime   time.Time
	duration    time.Duration
	pageCount   int
	assetCount  int
	errors      []error
	hasFailures bool
}

func newReport() *Report {
	return &Report{startTime: time.Now()}
}

func (r *Report) addPage() {
	r.mu.Lock()
	r.pageCount++
	r.mu.Unlock()
}

func (r *Report) addAsset() {
	r.mu.Lock()
	r.assetCount++
	r.mu.Unlock()
}

func (r *Report) addError(err error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.hasFailures = true
	r.mu.Unlock()
}

func (r *Report) finish() {
	r.duration = time.Since(r.startTime)
}

func (r *Report) PagesRendered() int { return r.pageCount }

func (r *Report) AssetsCopied() int { return r.assetCount }

func (r *Report) Duration() time.Duration { return r.duration }

// Errors returns every collected page error in no particular order.
func (r *Report) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errors))
	copy(out, r.errors)
	return out
}

func (r *Report) HasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasFailures
}

// Err summarises the run: nil on success, otherwise an error naming the
// failure count. Individual failures are available through Errors.
func (r *Report) Err() error {
	if !r.HasFailures() {
		return nil
	}
	return fmt.Errorf("build failed with %d page error(s)", len(r.Errors()))
}
