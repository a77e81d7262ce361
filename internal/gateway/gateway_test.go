package gateway

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/sheets"
)

func TestBuildRecord(t *testing.T) {
	d := domain.Domain{
		ID:        "Governance",
		Questions: []domain.Question{{Text: "سؤال أ"}, {Text: "سؤال ب"}},
	}
	evaluator := domain.EvaluatorInfo{Name: "Alice", Email: "a@example.com", Mobile: "0500000000"}
	answers := domain.AnswerSet{}.WithAnswer("Governance", "سؤال أ", 3)

	record := BuildRecord(d, evaluator, answers)

	if record[sheets.ColAssessorName] != "Alice" ||
		record[sheets.ColEmail] != "a@example.com" ||
		record[sheets.ColMobile] != "0500000000" {
		t.Fatalf("evaluator metadata missing: %+v", record)
	}
	if record["سؤال أ"] != "Defined (3)" {
		t.Fatalf("expected formatted answer, got %q", record["سؤال أ"])
	}
	if record["سؤال ب"] != "" {
		t.Fatalf("unanswered question must serialize empty, got %q", record["سؤال ب"])
	}
}

func TestSubmitWritesEveryDomain(t *testing.T) {
	appender := &fakeAppender{}
	gw := New(appender, nil)

	domains := []domain.Domain{
		{ID: "A", Questions: []domain.Question{{Text: "q1"}}},
		{ID: "B", Questions: []domain.Question{{Text: "q1"}}},
	}
	answers := domain.AnswerSet{}.WithAnswer("A", "q1", 5).WithAnswer("B", "q1", 1)

	outcome := gw.Submit(context.Background(), domains, domain.EvaluatorInfo{Name: "Alice"}, answers)

	sort.Strings(outcome.Submitted)
	if len(outcome.Submitted) != 2 || outcome.Submitted[0] != "A" || outcome.Submitted[1] != "B" {
		t.Fatalf("expected both domains submitted, got %+v", outcome)
	}
	if len(outcome.Failed) != 0 {
		t.Fatalf("expected no failures, got %+v", outcome.Failed)
	}
	if appender.count("A") != 1 || appender.count("B") != 1 {
		t.Fatalf("expected one write per domain: %+v", appender.calls)
	}
}

func TestSubmitSurfacesPartialFailure(t *testing.T) {
	appender := &fakeAppender{failSheets: map[string]error{"B": errors.New("boom")}}
	outbox := &recordingOutbox{}
	gw := New(appender, outbox)

	domains := []domain.Domain{
		{ID: "A", Questions: []domain.Question{{Text: "q1"}}},
		{ID: "B", Questions: []domain.Question{{Text: "q1"}}},
	}
	answers := domain.AnswerSet{}.WithAnswer("A", "q1", 5).WithAnswer("B", "q1", 1)

	outcome := gw.Submit(context.Background(), domains, domain.EvaluatorInfo{Name: "Alice"}, answers)

	if len(outcome.Submitted) != 1 || outcome.Submitted[0] != "A" {
		t.Fatalf("expected only A submitted, got %+v", outcome.Submitted)
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0].DomainID != "B" {
		t.Fatalf("expected B failure surfaced, got %+v", outcome.Failed)
	}
	// Failed writes are parked for retry, not lost.
	if len(outbox.enqueued) != 1 || outbox.enqueued[0].Sheet != "B" {
		t.Fatalf("expected B parked in outbox, got %+v", outbox.enqueued)
	}
}

func TestRetryPendingDrainsOutbox(t *testing.T) {
	appender := &fakeAppender{}
	outbox := &recordingOutbox{}
	_ = outbox.Enqueue(context.Background(), "B", map[string]string{"q1": "Initial (1)"})
	gw := New(appender, outbox)

	retried, failed, err := gw.RetryPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried != 1 || failed != 0 {
		t.Fatalf("expected 1 retried, got retried=%d failed=%d", retried, failed)
	}
	if len(outbox.enqueued) != 0 {
		t.Fatalf("expected outbox drained, got %+v", outbox.enqueued)
	}
	if appender.count("B") != 1 {
		t.Fatalf("expected retried write for B")
	}
}

func TestRetryPendingKeepsStillFailingWrites(t *testing.T) {
	appender := &fakeAppender{failSheets: map[string]error{"B": errors.New("still down")}}
	outbox := &recordingOutbox{}
	_ = outbox.Enqueue(context.Background(), "B", map[string]string{"q1": "Initial (1)"})
	gw := New(appender, outbox)

	retried, failed, err := gw.RetryPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried != 0 || failed != 1 {
		t.Fatalf("expected 1 still failing, got retried=%d failed=%d", retried, failed)
	}
	if len(outbox.enqueued) != 1 {
		t.Fatalf("failing write must stay parked")
	}
}

type fakeAppender struct {
	mu         sync.Mutex
	calls      []string
	failSheets map[string]error
}

func (a *fakeAppender) Append(_ context.Context, sheet string, _ map[string]string) error {
	a.mu.Lock()
	a.calls = append(a.calls, sheet)
	a.mu.Unlock()
	if err, ok := a.failSheets[sheet]; ok {
		return err
	}
	return nil
}

func (a *fakeAppender) count(sheet string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, s := range a.calls {
		if s == sheet {
			n++
		}
	}
	return n
}

type recordingOutbox struct {
	mu       sync.Mutex
	nextID   int64
	enqueued []PendingWrite
}

func (o *recordingOutbox) Enqueue(_ context.Context, sheet string, record map[string]string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	o.enqueued = append(o.enqueued, PendingWrite{ID: o.nextID, Sheet: sheet, Record: record})
	return nil
}

func (o *recordingOutbox) Pending(_ context.Context, limit int) ([]PendingWrite, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit <= 0 || limit > len(o.enqueued) {
		limit = len(o.enqueued)
	}
	out := make([]PendingWrite, limit)
	copy(out, o.enqueued[:limit])
	return out, nil
}

func (o *recordingOutbox) Delete(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, w := range o.enqueued {
		if w.ID == id {
			o.enqueued = append(o.enqueued[:i], o.enqueued[i+1:]...)
			return nil
		}
	}
	return nil
}
