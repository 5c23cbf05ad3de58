package stats

import (
	"context"
)

// Mutation packages one deferred update: target entity, event kind and
// operands. Producers on worker goroutines submit mutations instead of
// taking the store lock inline.
type Mutation struct {
	ID   string
	Kind EventKind
	Op   Operands
}

// Completion is the handle for one submitted mutation. It resolves
// once the mutation has been applied; callers that must observe the
// effect (for example before teardown) wait on it.
type Completion struct {
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Done returns a channel closed when the mutation has been applied
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the apply result. Only valid after Done is closed.
func (c *Completion) Err() error {
	return c.err
}

// Wait blocks until the mutation is applied or the context ends
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Completion) resolve(err error) {
	c.err = err
	close(c.done)
}

// Submit queues a mutation for deferred application. Each submission is
// chained as a dependency of the previous one, so deferred applies are
// serialized without the producer ever blocking on the store lock. The
// apply step itself still runs under the write lock, keeping a single
// source of truth with the inline path.
//
// A submitted mutation always completes; Close waits for the whole
// chain before releasing the records.
func (s *Store) Submit(m Mutation) *Completion {
	c := newCompletion()

	s.tailMu.Lock()
	if s.closed {
		s.tailMu.Unlock()
		c.resolve(ErrStoreClosed)
		return c
	}
	prev := s.tail
	s.tail = c
	s.pending.Add(1)
	s.tailMu.Unlock()

	go func() {
		defer s.pending.Done()

		if prev != nil {
			<-prev.done
		}

		if !m.Kind.Valid() {
			c.resolve(ErrUnknownEvent)
			return
		}

		s.mu.Lock()
		err := s.applyLocked(m.ID, m.Kind, m.Op)
		s.mu.Unlock()

		c.resolve(err)
	}()

	return c
}
