package history

import (
	"context"
	"errors"
	"testing"
)

type fakeRecorder struct {
	turns []Turn
	err   error
}

func (f *fakeRecorder) RecordTurn(ctx context.Context, turn Turn) error {
	f.turns = append(f.turns, turn)
	return f.err
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("successful write", func(t *testing.T) {
		rec := &fakeRecorder{}
		w := NewWriter(rec, nil)
		if !w.Write(ctx, Turn{SessionID: "s1", Question: "q", Answer: "a"}) {
			t.Error("Write = false, want true")
		}
		if len(rec.turns) != 1 {
			t.Fatalf("turns = %d, want 1", len(rec.turns))
		}
	})

	t.Run("recorder failure is swallowed", func(t *testing.T) {
		rec := &fakeRecorder{err: errors.New("db down")}
		w := NewWriter(rec, nil)
		if w.Write(ctx, Turn{SessionID: "s1"}) {
			t.Error("Write = true, want false")
		}
	})

	t.Run("nil recorder is a no-op", func(t *testing.T) {
		w := NewWriter(nil, nil)
		if w.Write(ctx, Turn{}) {
			t.Error("Write = true, want false")
		}
	})
}
