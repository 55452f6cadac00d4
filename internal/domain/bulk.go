package domain

import "context"

// BulkFailure identifies one rejected row of a bulk batch. Identifier is
// the row's email when parseable; otherwise "row-N", where the header line
// is row 1 and the first data row is row 2.
type BulkFailure struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// BulkProgress is reported after each processed row so callers can render
// progress during a large batch.
type BulkProgress struct {
	Processed    int `json:"processed"`
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}

type BulkReport struct {
	BatchID          string                `json:"batch_id"`
	Success          []*CandidateAggregate `json:"success"`
	Failed           []BulkFailure         `json:"failed"`
	TotalProcessed   int                   `json:"total_processed"`
	SuccessCount     int                   `json:"success_count"`
	FailureCount     int                   `json:"failure_count"`
	ProcessingTimeMs int64                 `json:"processing_time_ms"`
}

// BulkProgressFunc receives incremental progress; nil disables reporting.
type BulkProgressFunc func(BulkProgress)

type BulkUsecase interface {
	// Import parses the batch (CSV, or XLSX when the filename ends in
	// .xlsx), validates and creates each row independently, and reports
	// per-row outcomes. One bad row never aborts the others.
	Import(ctx context.Context, filename string, content []byte, progress BulkProgressFunc) (*BulkReport, error)
}
