package store

import "time"

// Progress statuses for resumable batch runs.
const (
	ProgressPending    = "pending"
	ProgressProcessing = "processing"
	ProgressCompleted  = "completed"
	ProgressFailed     = "failed"
)

// BatchProgress tracks one entity's place in a batch run.
type BatchProgress struct {
	StockCode      string
	Status         string
	ErrorMessage   string
	ProcessingTime float64 // seconds
	UpdatedAt      time.Time
}

// BatchLog summarizes one completed batch run.
type BatchLog struct {
	BatchID     string
	TotalStocks int
	Completed   int
	Failed      int
	StartTime   time.Time
	EndTime     time.Time
	SuccessRate float64
}

// NewsRecord is one collected headline with its lexicon sentiment score.
type NewsRecord struct {
	StockCode   string
	Title       string
	Link        string
	Publisher   string
	PublishedAt time.Time
	Sentiment   float64
	CollectedAt time.Time
}
