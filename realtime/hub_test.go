package realtime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case e, ok := <-sub.Events():
		return e, ok
	case <-time.After(200 * time.Millisecond):
		return Event{}, false
	}
}

func TestHubDeliversOnlyToOwner(t *testing.T) {
	hub := NewHub()
	mine := hub.Subscribe(1, 0)
	theirs := hub.Subscribe(2, 0)
	defer mine.Close()
	defer theirs.Close()

	hub.Publish(Event{Kind: TransactionCreated, UserID: 1, CustomerID: 7, TransactionID: 3})

	e, ok := receive(t, mine)
	require.True(t, ok)
	assert.Equal(t, TransactionCreated, e.Kind)
	assert.Equal(t, uint(7), e.CustomerID)

	_, ok = receive(t, theirs)
	assert.False(t, ok)
}

func TestHubCustomerFilter(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1, 7)
	defer sub.Close()

	hub.Publish(Event{Kind: TransactionCreated, UserID: 1, CustomerID: 8})
	hub.Publish(Event{Kind: TransactionCreated, UserID: 1, CustomerID: 7})

	e, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, uint(7), e.CustomerID)

	_, ok = receive(t, sub)
	assert.False(t, ok)
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1, 0)
	require.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	// publishing after close must not panic
	hub.Publish(Event{Kind: CustomerCreated, UserID: 1})
}

func TestHubDropsWhenSubscriberLags(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1, 0)
	defer sub.Close()

	for i := 0; i < subscriptionBuffer+5; i++ {
		hub.Publish(Event{Kind: CustomerUpdated, UserID: 1})
	}
	assert.Equal(t, uint64(5), hub.Dropped())
}

type fakeRelay struct {
	sent []Event
	err  error
}

func (f *fakeRelay) Send(e Event) error {
	f.sent = append(f.sent, e)
	return f.err
}

func TestHubPublishesThroughRelay(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1, 0)
	defer sub.Close()

	relay := &fakeRelay{}
	hub.SetRelay(relay)
	hub.Publish(Event{Kind: CustomerCreated, UserID: 1})

	require.Len(t, relay.sent, 1)
	_, ok := receive(t, sub)
	assert.False(t, ok, "relay is responsible for delivery")

	relay.err = errors.New("connection refused")
	hub.Publish(Event{Kind: CustomerDeleted, UserID: 1})
	e, ok := receive(t, sub)
	require.True(t, ok)
	assert.Equal(t, CustomerDeleted, e.Kind)
}
