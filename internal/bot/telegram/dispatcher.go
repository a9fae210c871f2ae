package telegram

import (
	"context"
	"sync"

	"github.com/sorare-price-bot/server/internal/bot/model"
)

// dispatcher runs one drain goroutine per active session: messages of a
// session are handled in arrival order, different sessions in parallel.
type dispatcher struct {
	handle func(context.Context, model.Inbound)

	mu     sync.Mutex
	queues map[string]*sessionQueue
	wg     sync.WaitGroup
}

type sessionQueue struct {
	pending []model.Inbound
}

func newDispatcher(handle func(context.Context, model.Inbound)) *dispatcher {
	return &dispatcher{
		handle: handle,
		queues: make(map[string]*sessionQueue),
	}
}

func (d *dispatcher) dispatch(ctx context.Context, in model.Inbound) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if q, ok := d.queues[in.SessionID]; ok {
		q.pending = append(q.pending, in)
		return
	}

	q := &sessionQueue{pending: []model.Inbound{in}}
	d.queues[in.SessionID] = q
	d.wg.Add(1)
	go d.drain(ctx, in.SessionID, q)
}

func (d *dispatcher) drain(ctx context.Context, sessionID string, q *sessionQueue) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(q.pending) == 0 {
			delete(d.queues, sessionID)
			d.mu.Unlock()
			return
		}
		in := q.pending[0]
		q.pending = q.pending[1:]
		d.mu.Unlock()

		d.handle(ctx, in)
	}
}

// wait blocks until every queued message has been handled.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
