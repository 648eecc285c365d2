package reactive

// Mapped is a read-only view derived from another Readable. It holds no
// value of its own: the mapping runs whenever the view is read or the
// source delivers, so it always reflects state at delivery time.
type Mapped[U any] struct {
	id        uint64
	get       func() U
	subscribe func(func(U)) func()
}

// Map derives a view of src through fn. Every source notification produces
// one notification of the view.
func Map[T, U any](src Readable[T], fn func(T) U) *Mapped[U] {
	return &Mapped[U]{
		id:  nextID(),
		get: func() U { return fn(src.Get()) },
		subscribe: func(cb func(U)) func() {
			return src.Subscribe(func(v T) { cb(fn(v)) })
		},
	}
}

// MapDedup is like Map but skips a notification when the mapped value is
// equal, per equal, to the last one delivered to that subscriber.
func MapDedup[T, U any](src Readable[T], fn func(T) U, equal func(U, U) bool) *Mapped[U] {
	return &Mapped[U]{
		id:  nextID(),
		get: func() U { return fn(src.Get()) },
		subscribe: func(cb func(U)) func() {
			var last U
			delivered := false
			return src.Subscribe(func(v T) {
				next := fn(v)
				if delivered && equal(last, next) {
					return
				}
				last, delivered = next, true
				cb(next)
			})
		},
	}
}

// ID returns the unique identifier for this view.
func (m *Mapped[U]) ID() uint64 {
	return m.id
}

// Get computes the current value of the view.
func (m *Mapped[U]) Get() U {
	return m.get()
}

// Subscribe calls fn with the current value of the view and again after
// every source notification.
func (m *Mapped[U]) Subscribe(fn func(U)) func() {
	return m.subscribe(fn)
}
