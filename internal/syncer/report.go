package syncer

import "fmt"

// ItemFailure identifies one product whose embedding could not be generated
// or persisted during a batch.
type ItemFailure struct {
	ProductID int64
	Code      string
	Err       error
}

// Report summarizes one synchronization run.
type Report struct {
	Scanned   int
	Succeeded int
	Failures  []ItemFailure
}

// Failed returns the number of failed products.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// String renders the report for CLI output.
func (r *Report) String() string {
	s := fmt.Sprintf("scanned=%d succeeded=%d failed=%d", r.Scanned, r.Succeeded, r.Failed())
	for _, f := range r.Failures {
		s += fmt.Sprintf("\n  failed: product %d (%s): %v", f.ProductID, f.Code, f.Err)
	}
	return s
}
