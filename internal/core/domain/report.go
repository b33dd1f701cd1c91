package domain

// OutcomeStatus is the result of reading one source file.
type OutcomeStatus string

// Outcome statuses.
const (
	// OutcomeOK means the file was read and added to the corpus.
	OutcomeOK OutcomeStatus = "ok"

	// OutcomeSkipped means the file could not be read and was left out.
	OutcomeSkipped OutcomeStatus = "skipped"
)

// PageSkip records a page that failed extraction.
type PageSkip struct {
	// Page is the 1-based page number.
	Page int

	// Reason is the extraction error message.
	Reason string
}

// Outcome describes what happened to one source file.
type Outcome struct {
	Filename     string
	Status       OutcomeStatus
	Reason       string
	Pages        int
	SkippedPages []PageSkip
}

// ProcessingReport aggregates per-file outcomes of one corpus load.
type ProcessingReport struct {
	// RunID identifies the load.
	RunID string

	// Source is the folder that was read.
	Source string

	// InvalidPath is set when Source was not a directory.
	InvalidPath bool

	// Outcomes are in filename order.
	Outcomes []Outcome
}

// Add appends an outcome.
func (r *ProcessingReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Loaded returns the number of files added to the corpus.
func (r *ProcessingReport) Loaded() int {
	return r.count(OutcomeOK)
}

// Skipped returns the number of files left out of the corpus.
func (r *ProcessingReport) Skipped() int {
	return r.count(OutcomeSkipped)
}

// SkippedPages returns the total number of pages dropped from loaded files.
func (r *ProcessingReport) SkippedPages() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.SkippedPages)
	}
	return n
}

func (r *ProcessingReport) count(s OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}
