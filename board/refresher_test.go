package board_test

import (
	"context"
	"testing"
	"time"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresherPublishesToSubscribers(t *testing.T) {
	rec := &countingRecorder{}
	b := newBoard(t, &fakeSource{rows: sampleRows()}, rec, schedule.DefaultConfig())
	r := board.NewRefresher(b, time.Minute)

	_, ok := r.Latest()
	assert.False(t, ok)

	id, ch := r.Subscribe()
	assert.Equal(t, 1, rec.subscribers)

	r.Refresh(context.Background())
	select {
	case snap := <-ch:
		require.Len(t, snap.Ongoing, 1)
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, "MA111", latest.Ongoing[0].Code)

	// late subscribers start from the latest snapshot
	_, late := r.Subscribe()
	select {
	case snap := <-late:
		assert.Equal(t, latest.GeneratedAt, snap.GeneratedAt)
	default:
		t.Fatal("late subscriber got nothing")
	}

	r.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, r.Subscribers())
	r.Unsubscribe(id)
}

func TestRefresherSlowSubscriberKeepsNewest(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	b := newBoard(t, src, nil, schedule.DefaultConfig())
	r := board.NewRefresher(b, time.Minute)
	_, ch := r.Subscribe()

	for i := 0; i < 5; i++ {
		r.Refresh(context.Background())
	}
	assert.Len(t, ch, 1)
	assert.Equal(t, 5, src.calls)
}

func TestRefresherRunStopsOnCancel(t *testing.T) {
	src := &fakeSource{rows: sampleRows()}
	b := newBoard(t, src, nil, schedule.DefaultConfig())
	r := board.NewRefresher(b, 10*time.Millisecond)
	_, ch := r.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("run never refreshed")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}

	// drain whatever was buffered, the channel must end up closed
	for range ch {
	}
	assert.Equal(t, 0, r.Subscribers())
}
