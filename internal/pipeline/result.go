package pipeline

import "github.com/kamazuxa/tender/internal/textclean"

// Failure reasons for a run that produced no usable text.
const (
	ReasonNoDocuments   = "no_documents"
	ReasonNoUsableFiles = "no_usable_files"
	ReasonEmptyText     = "empty_text"
)

// Source records the provenance of one file's contribution to the combined
// text.
type Source struct {
	Filename       string `json:"filename"`
	Length         int    `json:"length"`
	OriginalLength int    `json:"originalLength"`
}

// Result is the outcome of one pipeline run. On failure Text is empty and
// Reason names why nothing usable was produced.
type Result struct {
	Success bool            `json:"success"`
	Text    string          `json:"text,omitempty"`
	Length  int             `json:"length"`
	Sources []Source        `json:"sources,omitempty"`
	Stats   textclean.Stats `json:"stats"`
	Reason  string          `json:"reason,omitempty"`
}

func failure(reason string, stats textclean.Stats) *Result {
	return &Result{Success: false, Stats: stats, Reason: reason}
}
