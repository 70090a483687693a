package history

import (
	"context"
	"time"
)

// Entry is one recorded statement
type Entry struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	SessionID    string        `json:"session_id"`
	Input        string        `json:"input"`
	Statement    string        `json:"statement,omitempty"`
	Output       string        `json:"output,omitempty"`
	Halted       bool          `json:"halted,omitempty"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Program      []string      `json:"program,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Failed reports whether the statement was rejected
func (e *Entry) Failed() bool {
	return e.ErrorCode != ""
}

// Filter defines criteria for querying entries
type Filter struct {
	SessionID  string
	ErrorsOnly bool
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// Stats summarizes the store contents
type Stats struct {
	Total    int64
	Failed   int64
	Sessions int64
	ByCode   map[string]int64
}

// Store defines the interface for transcript persistence. Implementations
// are safe for concurrent use.
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}
