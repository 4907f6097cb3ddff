package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

type failingSink struct {
	calls int
}

func (f *failingSink) Record(ctx context.Context, rec contractx.AuditRecord) error {
	f.calls++
	return errors.New("sink unavailable")
}

func TestBestEffortNilSink(t *testing.T) {
	t.Parallel()

	// Must not panic.
	BestEffort(context.Background(), nil, zerolog.Nop(), contractx.AuditRecord{TaskName: "x"})
}

func TestBestEffortSwallowsSinkError(t *testing.T) {
	t.Parallel()

	sink := &failingSink{}
	BestEffort(context.Background(), sink, zerolog.Nop(), contractx.AuditRecord{TaskName: "x"})

	if sink.calls != 1 {
		t.Fatalf("sink calls = %d, want 1", sink.calls)
	}
}
