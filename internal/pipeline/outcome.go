// Package pipeline drives per-file, per-folder, and repository-level
// documentation runs. Failures are contained at the smallest enclosing
// scope: a bad chunk costs coverage, a bad file is logged and skipped,
// and the run always completes best-effort.
package pipeline

import "codetale/internal/doc"

// Status classifies how processing one file ended.
type Status string

const (
	// StatusCompleted: the file was processed and its artifact written.
	StatusCompleted Status = "completed"
	// StatusCached: an existing artifact short-circuited the pipeline.
	StatusCached Status = "cached"
	// StatusSkipped: nothing to document (empty file, no elements).
	StatusSkipped Status = "skipped"
	// StatusFailed: the file failed; the run continues with the next.
	StatusFailed Status = "failed"
)

// Outcome is the explicit result of processing one file, so callers
// can tell "nothing to document" apart from "processing failed".
type Outcome struct {
	Status Status
	Path   string
	Reason string
	Doc    *doc.FileDoc
	Err    error
}

func completed(path string, fd *doc.FileDoc) Outcome {
	return Outcome{Status: StatusCompleted, Path: path, Doc: fd}
}

func cached(path string, fd *doc.FileDoc) Outcome {
	return Outcome{Status: StatusCached, Path: path, Doc: fd, Reason: "artifact already exists"}
}

func skipped(path, reason string, fd *doc.FileDoc) Outcome {
	return Outcome{Status: StatusSkipped, Path: path, Reason: reason, Doc: fd}
}

func failed(path, reason string, err error) Outcome {
	return Outcome{Status: StatusFailed, Path: path, Reason: reason, Err: err}
}
