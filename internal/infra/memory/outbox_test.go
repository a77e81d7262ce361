package memory

import (
	"context"
	"testing"
)

func TestOutboxEnqueueAndDrain(t *testing.T) {
	outbox := NewOutbox()
	ctx := context.Background()

	record := map[string]string{"q1": "Initial (1)"}
	if err := outbox.Enqueue(ctx, "Governance", record); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := outbox.Enqueue(ctx, "Strategy", map[string]string{"q1": "Managed (2)"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if outbox.Len() != 2 {
		t.Fatalf("expected 2 parked writes, got %d", outbox.Len())
	}

	// The parked record is a copy, mutating the caller's map must not
	// leak into the outbox.
	record["q1"] = "mutated"

	pending, err := outbox.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].Sheet != "Governance" || pending[0].Record["q1"] != "Initial (1)" {
		t.Fatalf("unexpected first pending write: %+v", pending[0])
	}
	if pending[0].ID >= pending[1].ID {
		t.Fatalf("expected ascending ids, got %d then %d", pending[0].ID, pending[1].ID)
	}

	if err := outbox.Delete(ctx, pending[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if outbox.Len() != 1 {
		t.Fatalf("expected 1 parked write after delete, got %d", outbox.Len())
	}

	remaining, _ := outbox.Pending(ctx, 10)
	if len(remaining) != 1 || remaining[0].Sheet != "Strategy" {
		t.Fatalf("expected Strategy to remain, got %+v", remaining)
	}
}

func TestOutboxPendingRespectsLimit(t *testing.T) {
	outbox := NewOutbox()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := outbox.Enqueue(ctx, "Governance", nil); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	pending, err := outbox.Pending(ctx, 3)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(pending))
	}
}

func TestOutboxDeleteUnknownIDIsNoop(t *testing.T) {
	outbox := NewOutbox()
	if err := outbox.Delete(context.Background(), 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
