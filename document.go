package rag

import "time"

// Document is a source file known to the backend.
type Document struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	Hash    string
	Indexed bool
}

// SearchHit is a passage matched by a document search.
type SearchHit struct {
	Content   string
	Highlight string // empty when the backend did not highlight the match
	DocName   string
}

// Text returns the highlighted passage when present, otherwise the content.
func (h SearchHit) Text() string {
	if h.Highlight != "" {
		return h.Highlight
	}
	return h.Content
}

// UploadResult reports an uploaded file and the chunks indexed from it.
type UploadResult struct {
	Filename string
	Added    int
}

// IngestResult reports a re-index run. JobID is set instead of the counts
// when the backend queued the run asynchronously.
type IngestResult struct {
	Added    int
	RawItems int
	Chunks   int
	JobID    string
}

// Health is the backend liveness report.
type Health struct {
	Status  string
	Backend string
}
