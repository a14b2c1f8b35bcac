// Package bus distributes kernel events to in-process subscribers and, via
// the Observer, to WebSocket clients. Events travel verbatim; the bus never
// rewrites a conscious.Event.
package bus

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Mukesh1q2/Brahm-sub001/pkg/conscious"
)

const (
	// DefaultHistorySize is the number of recent events to retain for replay.
	DefaultHistorySize = 1000

	// DefaultChannelBuffer is the buffer size for subscriber channels.
	DefaultChannelBuffer = 256
)

// ErrClosed is returned by operations on a closed bus.
var ErrClosed = errors.New("bus is closed")

// Wildcard subscribes to every event type.
const Wildcard conscious.EventType = ""

// SubscriptionID is a unique identifier for event subscriptions.
type SubscriptionID string

// Subscription represents a single event subscription.
type Subscription struct {
	ID        SubscriptionID
	EventType conscious.EventType
	Handler   func(conscious.Event)
	Channel   chan conscious.Event
	done      chan struct{}
}

// Bus is a thread-safe pub/sub hub with wildcard support and a bounded
// history. A full subscriber channel drops the event for that subscriber only.
type Bus struct {
	subscriptions   map[SubscriptionID]*Subscription
	subscriptionsMu sync.RWMutex
	subCounter      atomic.Uint64

	// Event type to subscription mapping for fast lookup
	typedSubs   map[conscious.EventType]map[SubscriptionID]*Subscription
	typedSubsMu sync.RWMutex

	wildcardSubs   map[SubscriptionID]*Subscription
	wildcardSubsMu sync.RWMutex

	history     []conscious.Event
	historyMu   sync.RWMutex
	historySize int

	dropped atomic.Uint64
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithHistorySize bounds the replay history.
func WithHistorySize(n int) Option {
	return func(b *Bus) {
		if n >= 0 {
			b.historySize = n
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Bus) { b.log = log }
}

// New creates a bus.
func New(opts ...Option) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bus{
		subscriptions: make(map[SubscriptionID]*Subscription),
		typedSubs:     make(map[conscious.EventType]map[SubscriptionID]*Subscription),
		wildcardSubs:  make(map[SubscriptionID]*Subscription),
		historySize:   DefaultHistorySize,
		log:           zerolog.Nop(),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = make([]conscious.Event, 0, b.historySize)
	return b
}

// Subscribe registers a handler for a specific event type. Use Wildcard to
// receive all events. Handlers run on a dedicated goroutine per
// subscription, in publish order. Subscribing to a closed bus returns "".
func (b *Bus) Subscribe(eventType conscious.EventType, handler func(conscious.Event)) SubscriptionID {
	if b.closed.Load() {
		return ""
	}

	id := SubscriptionID(fmt.Sprintf("sub_%d", b.subCounter.Add(1)))
	sub := &Subscription{
		ID:        id,
		EventType: eventType,
		Handler:   handler,
		Channel:   make(chan conscious.Event, DefaultChannelBuffer),
		done:      make(chan struct{}),
	}

	b.subscriptionsMu.Lock()
	b.subscriptions[id] = sub
	b.subscriptionsMu.Unlock()

	if eventType == Wildcard {
		b.wildcardSubsMu.Lock()
		b.wildcardSubs[id] = sub
		b.wildcardSubsMu.Unlock()
	} else {
		b.typedSubsMu.Lock()
		if b.typedSubs[eventType] == nil {
			b.typedSubs[eventType] = make(map[SubscriptionID]*Subscription)
		}
		b.typedSubs[eventType][id] = sub
		b.typedSubsMu.Unlock()
	}

	b.wg.Add(1)
	go b.handleSubscription(sub)

	return id
}

func (b *Bus) handleSubscription(sub *Subscription) {
	defer b.wg.Done()

	for {
		select {
		case event := <-sub.Channel:
			b.dispatch(sub, event)
		case <-sub.done:
			return
		case <-b.ctx.Done():
			return
		}
	}
}

func (b *Bus) dispatch(sub *Subscription, event conscious.Event) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Warn().Str("subscription", string(sub.ID)).Interface("panic", p).Msg("subscriber panicked")
		}
	}()
	sub.Handler(event)
}

// Unsubscribe removes a subscription by ID.
func (b *Bus) Unsubscribe(id SubscriptionID) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.subscriptionsMu.Lock()
	sub, exists := b.subscriptions[id]
	if !exists {
		b.subscriptionsMu.Unlock()
		return fmt.Errorf("subscription %s not found", id)
	}
	delete(b.subscriptions, id)
	b.subscriptionsMu.Unlock()

	if sub.EventType == Wildcard {
		b.wildcardSubsMu.Lock()
		delete(b.wildcardSubs, id)
		b.wildcardSubsMu.Unlock()
	} else {
		b.typedSubsMu.Lock()
		if subs, ok := b.typedSubs[sub.EventType]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.typedSubs, sub.EventType)
			}
		}
		b.typedSubsMu.Unlock()
	}

	close(sub.done)
	return nil
}

// Publish sends an event to all matching subscribers.
func (b *Bus) Publish(event conscious.Event) error {
	if b.closed.Load() {
		return ErrClosed
	}

	b.addToHistory(event)

	b.wildcardSubsMu.RLock()
	for _, sub := range b.wildcardSubs {
		b.offer(sub, event)
	}
	b.wildcardSubsMu.RUnlock()

	b.typedSubsMu.RLock()
	for _, sub := range b.typedSubs[event.Type] {
		b.offer(sub, event)
	}
	b.typedSubsMu.RUnlock()

	return nil
}

func (b *Bus) offer(sub *Subscription, event conscious.Event) {
	select {
	case sub.Channel <- event:
	default:
		b.dropped.Add(1)
	}
}

// PublishRun drains a run into the bus and returns how many events were
// published. It stops early when ctx is cancelled or the bus closes.
func (b *Bus) PublishRun(ctx context.Context, run iter.Seq[conscious.Event]) int {
	n := 0
	for ev := range run {
		if ctx.Err() != nil {
			break
		}
		if err := b.Publish(ev); err != nil {
			break
		}
		n++
	}
	return n
}

func (b *Bus) addToHistory(event conscious.Event) {
	if b.historySize == 0 {
		return
	}
	b.historyMu.Lock()
	defer b.historyMu.Unlock()

	b.history = append(b.history, event)
	if len(b.history) > b.historySize {
		b.history = b.history[len(b.history)-b.historySize:]
	}
}

// History returns a copy of the last n events, oldest first. n <= 0
// returns the whole history.
func (b *Bus) History(n int) []conscious.Event {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	if n <= 0 || n > len(b.history) {
		n = len(b.history)
	}
	result := make([]conscious.Event, n)
	copy(result, b.history[len(b.history)-n:])
	return result
}

// HistoryLen returns the number of retained events.
func (b *Bus) HistoryLen() int {
	b.historyMu.RLock()
	defer b.historyMu.RUnlock()
	return len(b.history)
}

// Dropped returns how many deliveries were skipped on full subscribers.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// SubscriptionsCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionsCount() int {
	b.subscriptionsMu.RLock()
	defer b.subscriptionsMu.RUnlock()
	return len(b.subscriptions)
}

// TypedSubscriptionsCount returns the number of subscriptions for a specific event type.
func (b *Bus) TypedSubscriptionsCount(eventType conscious.EventType) int {
	b.typedSubsMu.RLock()
	defer b.typedSubsMu.RUnlock()
	return len(b.typedSubs[eventType])
}

// WildcardSubscriptionsCount returns the number of wildcard subscriptions.
func (b *Bus) WildcardSubscriptionsCount() int {
	b.wildcardSubsMu.RLock()
	defer b.wildcardSubsMu.RUnlock()
	return len(b.wildcardSubs)
}

// Close stops every subscription goroutine and waits for them. Subscriber
// channels are left open; pending events are discarded.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	b.cancel()
	b.wg.Wait()

	b.subscriptionsMu.Lock()
	b.subscriptions = make(map[SubscriptionID]*Subscription)
	b.subscriptionsMu.Unlock()

	b.typedSubsMu.Lock()
	b.typedSubs = make(map[conscious.EventType]map[SubscriptionID]*Subscription)
	b.typedSubsMu.Unlock()

	b.wildcardSubsMu.Lock()
	b.wildcardSubs = make(map[SubscriptionID]*Subscription)
	b.wildcardSubsMu.Unlock()

	return nil
}
