package mock

import (
	"context"
	"sync"
	"time"

	"github.com/clearlane/paysettle/models"
)

type step struct {
	snap *models.TransactionSnapshot
	err  error
}

// Source is a scriptable in-memory status source for tests. Script and
// FailWith build a per-transaction timeline that successive GetStatus calls
// walk through; the last step repeats forever. Once a terminal snapshot has
// been served it is served again on every later call, whatever else was
// scripted, mirroring a real ledger's monotonic lifecycle.
type Source struct {
	mu    sync.Mutex
	steps map[string][]step
	done  map[string]*models.TransactionSnapshot
	calls map[string]int
}

func NewSource() *Source {
	return &Source{
		steps: make(map[string][]step),
		done:  make(map[string]*models.TransactionSnapshot),
		calls: make(map[string]int),
	}
}

// Script appends snapshots to the transaction's timeline.
func (s *Source) Script(txID string, snaps ...models.TransactionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range snaps {
		snap := snaps[i]
		s.steps[txID] = append(s.steps[txID], step{snap: &snap})
	}
}

// FailWith appends transport errors to the transaction's timeline.
func (s *Source) FailWith(txID string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, err := range errs {
		s.steps[txID] = append(s.steps[txID], step{err: err})
	}
}

// Calls reports how many times GetStatus ran for the transaction.
func (s *Source) Calls(txID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[txID]
}

func (s *Source) GetStatus(ctx context.Context, txID string) (*models.TransactionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[txID]++

	if terminal := s.done[txID]; terminal != nil {
		out := *terminal
		return &out, nil
	}

	queue := s.steps[txID]
	if len(queue) == 0 {
		return nil, nil
	}
	next := queue[0]
	if len(queue) > 1 {
		s.steps[txID] = queue[1:]
	}
	if next.err != nil {
		return nil, next.err
	}
	if next.snap.State.Terminal() {
		s.done[txID] = next.snap
	}
	out := *next.snap
	return &out, nil
}

// PushSource is a Source that also offers the push subscription capability,
// for exercising the waiter's notification path. Updates are drawn from the
// same scripted timeline, one step per interval.
type PushSource struct {
	*Source
	interval time.Duration

	mu     sync.Mutex
	subErr error
}

func NewPushSource(interval time.Duration) *PushSource {
	return &PushSource{Source: NewSource(), interval: interval}
}

// FailSubscribe makes the next SubscribeStatus call fail, forcing callers
// onto their polling fallback.
func (p *PushSource) FailSubscribe(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subErr = err
}

func (p *PushSource) SubscribeStatus(ctx context.Context, txID string) (<-chan models.TransactionSnapshot, <-chan error, error) {
	p.mu.Lock()
	subErr := p.subErr
	p.mu.Unlock()
	if subErr != nil {
		return nil, nil, subErr
	}

	updates := make(chan models.TransactionSnapshot)
	errs := make(chan error, 1)

	go func() {
		defer close(updates)
		for {
			snap, err := p.GetStatus(ctx, txID)
			if err != nil {
				select {
				case errs <- err:
				case <-ctx.Done():
				}
				return
			}
			if snap != nil {
				select {
				case updates <- *snap:
				case <-ctx.Done():
					return
				}
				if snap.State.Terminal() {
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval):
			}
		}
	}()

	return updates, errs, nil
}
