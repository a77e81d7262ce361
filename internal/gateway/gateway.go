// Package gateway writes completed assessments back to the remote store,
// one append per domain, and tracks the per-domain outcome instead of
// discarding it.
package gateway

import (
	"context"
	"log"
	"sync"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/sheets"
	"assessment-service/internal/scoring"
	"golang.org/x/sync/errgroup"
)

// Appender performs a single sheet write.
type Appender interface {
	Append(ctx context.Context, sheet string, record map[string]string) error
}

// Outbox persists failed writes so they can be retried later. All methods
// are best-effort from the gateway's point of view.
type Outbox interface {
	Enqueue(ctx context.Context, sheet string, record map[string]string) error
	Pending(ctx context.Context, limit int) ([]PendingWrite, error)
	Delete(ctx context.Context, id int64) error
}

// PendingWrite is one parked submission row awaiting retry.
type PendingWrite struct {
	ID     int64             `json:"id"`
	Sheet  string            `json:"sheet"`
	Record map[string]string `json:"record"`
}

// DomainFailure records one domain whose write did not land.
type DomainFailure struct {
	DomainID string `json:"domainId"`
	Reason   string `json:"reason"`
}

// Outcome summarizes a submission: which domain writes landed and which
// failed. Failures are non-fatal to the overall flow.
type Outcome struct {
	Submitted []string        `json:"submitted"`
	Failed    []DomainFailure `json:"failed,omitempty"`
}

// Gateway dispatches one write per domain. Writes run concurrently and
// the gateway waits for all of them to settle.
type Gateway struct {
	appender Appender
	outbox   Outbox // nil when no outbox is configured
}

func New(appender Appender, outbox Outbox) *Gateway {
	return &Gateway{appender: appender, outbox: outbox}
}

// BuildRecord serializes one domain's answers into the remote row format:
// evaluator metadata plus one "<LevelLabel> (<score>)" cell per question,
// empty when unanswered.
func BuildRecord(d domain.Domain, evaluator domain.EvaluatorInfo, answers domain.AnswerSet) map[string]string {
	record := map[string]string{
		sheets.ColAssessorName: evaluator.Name,
		sheets.ColEmail:        evaluator.Email,
		sheets.ColMobile:       evaluator.Mobile,
	}
	for _, q := range d.Questions {
		score, _ := answers.Get(d.ID, q.Text)
		record[q.Text] = scoring.FormatAnswer(score)
	}
	return record
}

// Submit writes every domain's record concurrently and reports the
// aggregate outcome. Failed writes are parked in the outbox when one is
// configured.
func (g *Gateway) Submit(ctx context.Context, domains []domain.Domain, evaluator domain.EvaluatorInfo, answers domain.AnswerSet) Outcome {
	var (
		mu      sync.Mutex
		outcome Outcome
	)

	eg, ctx := errgroup.WithContext(ctx)
	for _, d := range domains {
		d := d
		record := BuildRecord(d, evaluator, answers)
		eg.Go(func() error {
			err := g.appender.Append(ctx, d.ID, record)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				outcome.Submitted = append(outcome.Submitted, d.ID)
				return nil
			}
			log.Printf("submission for domain %q failed: %v", d.ID, err)
			outcome.Failed = append(outcome.Failed, DomainFailure{DomainID: d.ID, Reason: err.Error()})
			if g.outbox != nil {
				if enqErr := g.outbox.Enqueue(ctx, d.ID, record); enqErr != nil {
					log.Printf("outbox enqueue for domain %q failed: %v", d.ID, enqErr)
				}
			}
			return nil
		})
	}
	_ = eg.Wait()
	return outcome
}

// RetryPending drains up to limit parked writes, deleting each entry that
// lands. Entries that fail again stay parked.
func (g *Gateway) RetryPending(ctx context.Context, limit int) (retried, failed int, err error) {
	if g.outbox == nil {
		return 0, 0, nil
	}
	pending, err := g.outbox.Pending(ctx, limit)
	if err != nil {
		return 0, 0, err
	}
	for _, w := range pending {
		if err := g.appender.Append(ctx, w.Sheet, w.Record); err != nil {
			log.Printf("outbox retry for sheet %q failed: %v", w.Sheet, err)
			failed++
			continue
		}
		if err := g.outbox.Delete(ctx, w.ID); err != nil {
			log.Printf("outbox delete %d failed: %v", w.ID, err)
		}
		retried++
	}
	return retried, failed, nil
}
