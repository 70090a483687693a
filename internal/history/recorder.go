package history

import (
	"context"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	"github.com/msto63/galnotes/foundation/galnotes"
)

// Recorder adapts a Store to the session recorder interface
type Recorder struct {
	store Store
}

var _ galnotes.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder writing into store
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record converts a statement result into an entry and stores it
func (r *Recorder) Record(ctx context.Context, res *galnotes.Result, err error) error {
	return r.store.Record(ctx, EntryFromResult(res, err))
}

// EntryFromResult builds an entry from a statement result
func EntryFromResult(res *galnotes.Result, err error) *Entry {
	entry := &Entry{
		SessionID: res.SessionID,
		Input:     res.Input,
		Output:    res.Output,
		Halted:    res.Halted,
		Program:   res.Program,
		Elapsed:   res.Elapsed,
	}
	if res.Tree != nil {
		entry.Statement = res.Statement.String()
	}
	if err != nil {
		entry.ErrorCode = string(gnerror.GetCode(err))
		entry.ErrorMessage = err.Error()
		if entry.ErrorCode == "" {
			entry.ErrorCode = string(gnerror.CodeUnknown)
		}
	}
	return entry
}
