package realtime

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event kinds
const (
	CustomerCreated    = "customer.created"
	CustomerUpdated    = "customer.updated"
	CustomerDeleted    = "customer.deleted"
	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
)

// Event tells subscribers that a ledger record of UserID changed.
type Event struct {
	Kind          string    `json:"kind"`
	UserID        uint      `json:"userId"`
	CustomerID    uint      `json:"customerId,omitempty"`
	TransactionID uint      `json:"transactionId,omitempty"`
	At            time.Time `json:"at"`
}

const subscriptionBuffer = 32

// Subscription is a handle on the events of one owner, optionally narrowed to
// one customer. Close it when the consumer goes away.
type Subscription struct {
	hub        *Hub
	id         uint64
	userID     uint
	customerID uint
	events     chan Event
	once       sync.Once
}

// Events returns the delivery channel. It is closed by Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.id)
	})
}

func (s *Subscription) wants(e Event) bool {
	if e.UserID != s.userID {
		return false
	}
	return s.customerID == 0 || e.CustomerID == 0 || e.CustomerID == s.customerID
}

// Hub fans ledger events out to subscriptions in this process. With a relay
// attached, Publish goes through the relay and the hub delivers what the relay
// hands back, so every instance sees every event.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	next    uint64
	relay   Relay
	dropped atomic.Uint64
}

// Relay carries events between instances
type Relay interface {
	Send(e Event) error
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

// Default is the process-wide hub used by the HTTP layer.
var Default = NewHub()

// Subscribe registers interest in the events of userID. customerID 0 means all
// customers; customer-less events are always delivered.
func (h *Hub) Subscribe(userID, customerID uint) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	sub := &Subscription{
		hub:        h,
		id:         h.next,
		userID:     userID,
		customerID: customerID,
		events:     make(chan Event, subscriptionBuffer),
	}
	h.subs[sub.id] = sub
	return sub
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.events)
	}
}

// SetRelay routes subsequent publishes through r. nil restores local delivery.
func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

// Publish delivers e to matching subscriptions, through the relay when one is set.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	relay := h.relay
	h.mu.RUnlock()

	if relay != nil {
		if err := relay.Send(e); err == nil {
			return
		}
		// relay down, keep local subscribers informed
	}
	h.Deliver(e)
}

// Deliver fans e out locally. A subscriber whose buffer is full misses the event.
func (h *Hub) Deliver(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.wants(e) {
			continue
		}
		select {
		case sub.events <- e:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of open subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber lagged
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
