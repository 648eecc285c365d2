package reactive

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Readable is an observable value.
type Readable[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe calls fn with the current value, then again after every
	// change, until the returned function is called.
	Subscribe(fn func(T)) (unsubscribe func())
}

// subscription is one registered callback.
type subscription[T any] struct {
	id     uint64
	fn     func(T)
	active atomic.Bool
}

// signalBase provides subscriber management shared by the reactive types.
type signalBase[T any] struct {
	id uint64

	// subs are the callbacks subscribed to this signal, in subscription order.
	subs []*subscription[T]

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe registers fn and returns its subscription.
func (s *signalBase[T]) subscribe(fn func(T)) *subscription[T] {
	sub := &subscription[T]{id: nextID(), fn: fn}
	sub.active.Store(true)

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	return sub
}

// unsubscribe removes sub, keeping the order of the remaining subscribers.
func (s *signalBase[T]) unsubscribe(sub *subscription[T]) {
	if !sub.active.CompareAndSwap(true, false) {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == sub.id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so delivery runs without the lock.
func (s *signalBase[T]) snapshot() []*subscription[T] {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	subs := make([]*subscription[T], len(s.subs))
	copy(subs, s.subs)
	return subs
}

// count returns the number of live subscribers.
func (s *signalBase[T]) count() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// Signal is a mutable reactive value.
type Signal[T any] struct {
	base signalBase[T]

	// value is the current signal value.
	value T

	// version increments on every write that notifies.
	version uint64

	// mu protects value and version.
	mu sync.RWMutex

	// equal decides whether Set changes the value. If nil, uses default
	// equality checking.
	equal func(T, T) bool

	// clone copies values handed to readers. If nil, values are returned as is.
	clone func(T) T
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase[T]{id: nextID()},
		value: initial,
	}
}

// NewSliceSignal creates a signal holding a slice. The signal keeps its own
// copy of initial, hands every reader a fresh copy and compares values
// element by element.
func NewSliceSignal[E comparable](initial []E) *Signal[[]E] {
	return NewSignal(cloneSlice(initial)).
		WithClone(cloneSlice[E]).
		WithEquals(func(a, b []E) bool { return slices.Equal(a, b) })
}

func cloneSlice[E any](s []E) []E {
	out := make([]E, len(s))
	copy(out, s)
	return out
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// WithClone returns the signal configured to copy every value it hands out.
func (s *Signal[T]) WithClone(fn func(T) T) *Signal[T] {
	s.clone = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()
	return s.cloned(value)
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	if s.equals(s.value, value) {
		s.mu.Unlock()
		return
	}
	s.value = s.cloned(value)
	s.version++
	ver := s.version
	s.mu.Unlock()

	s.notify(ver)
}

// Replace stores value and notifies subscribers even if it is equal to the
// current value. It returns the previous value.
func (s *Signal[T]) Replace(value T) T {
	s.mu.Lock()
	old := s.value
	s.value = s.cloned(value)
	s.version++
	ver := s.version
	s.mu.Unlock()

	s.notify(ver)
	return old
}

// Update reads and writes the value under one lock. Subscribers are notified
// if the value changed.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(s.cloned(oldValue))
	if s.equals(oldValue, newValue) {
		s.mu.Unlock()
		return
	}
	s.value = s.cloned(newValue)
	s.version++
	ver := s.version
	s.mu.Unlock()

	s.notify(ver)
}

// Subscribe calls fn with the current value and again after every change.
// The returned function removes the subscription; it is safe to call more
// than once and from inside a callback.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	sub := s.base.subscribe(fn)

	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	fn(s.cloned(value))

	return func() { s.base.unsubscribe(sub) }
}

// Subscribers returns the number of live subscriptions.
func (s *Signal[T]) Subscribers() int {
	return s.base.count()
}

// notify delivers the value written at version ver to every subscriber.
// Delivery stops early if a subscriber writes a newer value, since the
// nested write has already delivered it to everyone.
func (s *Signal[T]) notify(ver uint64) {
	subs := s.base.snapshot()

	for _, sub := range subs {
		s.mu.RLock()
		current, value := s.version, s.value
		s.mu.RUnlock()

		if current != ver {
			return
		}
		if !sub.active.Load() {
			continue
		}
		sub.fn(s.cloned(value))
	}
}

func (s *Signal[T]) cloned(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for common comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
