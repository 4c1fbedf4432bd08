package history

import (
	"context"
	"log"

	"mortgage-rag-be/pkg/rag/source"
)

// Turn is one completed question/answer exchange ready to persist.
type Turn struct {
	SessionID    string
	UserID       string
	Agent        string
	Question     string
	Answer       string
	SessionTitle string
	Sources      []source.Source
}

// Recorder persists turns. Implementations live next to the database
// layer; this package only decides how failures are treated.
type Recorder interface {
	RecordTurn(ctx context.Context, turn Turn) error
}

// Writer wraps a Recorder with best-effort semantics: a persistence
// failure is logged and dropped, never surfaced to the caller. The user
// already has their answer by the time history is written.
type Writer struct {
	Recorder Recorder
	Logger   *log.Logger
}

func NewWriter(recorder Recorder, logger *log.Logger) *Writer {
	return &Writer{Recorder: recorder, Logger: logger}
}

// Write persists the turn if a recorder is configured. It reports whether
// the write succeeded but the caller is free to ignore it.
func (w *Writer) Write(ctx context.Context, turn Turn) bool {
	if w.Recorder == nil {
		return false
	}
	if err := w.Recorder.RecordTurn(ctx, turn); err != nil {
		if w.Logger != nil {
			w.Logger.Printf("[history] record turn failed session=%s: %v", turn.SessionID, err)
		}
		return false
	}
	return true
}
