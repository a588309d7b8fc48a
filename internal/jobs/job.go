// Package jobs implements batch analysis for footprint. A job groups the
// documents uploaded in one request, runs the pipeline for each of them in
// the background, and tracks per-document outcomes until every document has
// finished.
package jobs

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/internal/results"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// EntryStatus is the outcome of one document within a job.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntrySucceeded EntryStatus = "succeeded"
	EntryFailed    EntryStatus = "failed"
)

// Entry tracks one document of a job.
type Entry struct {
	DocumentID  uuid.UUID   `json:"document_id"`
	Filename    string      `json:"filename"`
	Status      EntryStatus `json:"status"`
	Error       string      `json:"error,omitempty"`
	FailedStage string      `json:"failed_stage,omitempty"`
}

// Finished reports whether the document's run has been recorded.
func (e Entry) Finished() bool {
	return e.Status != EntryPending
}

// Job is a batch of documents analyzed together.
type Job struct {
	ID          uuid.UUID  `json:"job_id"`
	Status      Status     `json:"status"`
	ProgressPct float64    `json:"progress_pct"`
	Documents   []Entry    `json:"documents"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// DocumentIDs returns the job's document ids in upload order.
func (j Job) DocumentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(j.Documents))
	for i, e := range j.Documents {
		ids[i] = e.DocumentID
	}
	return ids
}

// Filenames returns the job's filenames in upload order.
func (j Job) Filenames() []string {
	names := make([]string, len(j.Documents))
	for i, e := range j.Documents {
		names[i] = e.Filename
	}
	return names
}

// Progress returns the percentage of finished documents, rounded to one decimal.
func (j Job) Progress() float64 {
	if len(j.Documents) == 0 {
		return 100
	}

	finished := 0
	for _, e := range j.Documents {
		if e.Finished() {
			finished++
		}
	}

	pct := float64(finished) / float64(len(j.Documents)) * 100
	return math.Round(pct*10) / 10
}

func (j Job) allFinished() bool {
	for _, e := range j.Documents {
		if !e.Finished() {
			return false
		}
	}
	return true
}

func (j Job) clone() Job {
	j.Documents = append([]Entry(nil), j.Documents...)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		j.CompletedAt = &t
	}
	j.ProgressPct = j.Progress()
	return j
}

// Outcome is the recorded result of one document's pipeline run.
type Outcome struct {
	Status      EntryStatus
	Error       string
	FailedStage string
}

// OutcomeOf derives the outcome recorded for a finished pipeline state.
func OutcomeOf(s pipeline.State) Outcome {
	if s.Failed() {
		return Outcome{
			Status:      EntryFailed,
			Error:       s.Error,
			FailedStage: s.FailedStage,
		}
	}
	return Outcome{Status: EntrySucceeded}
}

// Submitted is the response to a job submission.
type Submitted struct {
	JobID     uuid.UUID   `json:"job_id"`
	Filenames []string    `json:"filenames"`
	Documents []uuid.UUID `json:"documents"`
}

// DocumentResults pairs a job entry with its stored stage outputs.
type DocumentResults struct {
	Entry
	Results *results.Results `json:"results,omitempty"`
}

// JobResults gathers the stored outputs of every document in a job.
type JobResults struct {
	JobID     uuid.UUID         `json:"job_id"`
	Status    Status            `json:"status"`
	Documents []DocumentResults `json:"documents"`
}
