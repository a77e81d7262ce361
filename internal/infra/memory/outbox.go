package memory

import (
	"context"
	"sync"

	"assessment-service/internal/gateway"
)

// Outbox is an in-memory implementation of gateway.Outbox. Parked writes
// do not survive a restart; use the Postgres outbox when durability
// matters.
type Outbox struct {
	mu     sync.Mutex
	nextID int64
	writes []gateway.PendingWrite
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Enqueue(_ context.Context, sheet string, record map[string]string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	copied := make(map[string]string, len(record))
	for k, v := range record {
		copied[k] = v
	}
	o.writes = append(o.writes, gateway.PendingWrite{ID: o.nextID, Sheet: sheet, Record: copied})
	return nil
}

func (o *Outbox) Pending(_ context.Context, limit int) ([]gateway.PendingWrite, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit <= 0 || limit > len(o.writes) {
		limit = len(o.writes)
	}
	out := make([]gateway.PendingWrite, limit)
	copy(out, o.writes[:limit])
	return out, nil
}

func (o *Outbox) Delete(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, w := range o.writes {
		if w.ID == id {
			o.writes = append(o.writes[:i], o.writes[i+1:]...)
			return nil
		}
	}
	return nil
}

// Len reports how many writes are parked.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.writes)
}
