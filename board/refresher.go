package board

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Refresher reruns the render cycle on a fixed interval and pushes every
// snapshot to its subscribers. Stopping is cancelling the context passed to
// Run, a cycle is never interrupted halfway.
type Refresher struct {
	board    *Board
	interval time.Duration
	logger   *slog.Logger

	mu          sync.RWMutex
	latest      Snapshot
	hasLatest   bool
	subscribers map[uuid.UUID]chan Snapshot
}

func NewRefresher(b *Board, interval time.Duration) *Refresher {
	return &Refresher{
		board:       b,
		interval:    interval,
		logger:      b.logger.With("job", "refresh"),
		subscribers: map[uuid.UUID]chan Snapshot{},
	}
}

func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Run blocks until ctx is done, subscriber channels are closed on return
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("starting refresher", "interval", r.interval)
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			r.logger.Info("stopped refresher")
			return nil
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh runs one cycle now and publishes it
func (r *Refresher) Refresh(ctx context.Context) Snapshot {
	snap := r.board.Snapshot(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = snap
	r.hasLatest = true
	for _, ch := range r.subscribers {
		offer(ch, snap)
	}
	return snap
}

// only the newest snapshot matters so a slow subscriber loses the stale one
//    instead of holding up everyone else
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (r *Refresher) Latest() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.hasLatest
}

// Subscribe returns a channel that receives the latest snapshot right away
// (if there is one) and every snapshot after it
func (r *Refresher) Subscribe() (uuid.UUID, <-chan Snapshot) {
	id := uuid.New()
	ch := make(chan Snapshot, 1)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasLatest {
		ch <- r.latest
	}
	r.subscribers[id] = ch
	r.board.recorder.SetSubscribers(len(r.subscribers))
	return id, ch
}

func (r *Refresher) Unsubscribe(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.subscribers[id]
	if !ok {
		return
	}
	delete(r.subscribers, id)
	close(ch)
	r.board.recorder.SetSubscribers(len(r.subscribers))
}

func (r *Refresher) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

func (r *Refresher) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subscribers {
		close(ch)
		delete(r.subscribers, id)
	}
	r.board.recorder.SetSubscribers(0)
}
