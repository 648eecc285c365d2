// Package reactive provides the observable cells the navigation state is
// built on.
//
// Signal[T] is a mutable value container. Subscribers receive the value at
// subscribe time and again after every change:
//
//	path := NewSliceSignal([]string{"home"})
//	stop := path.Subscribe(func(p []string) { fmt.Println(p) })  // prints [home]
//	path.Set([]string{"docs"})                                     // prints [docs]
//	stop()
//
// Map derives a read-only view. The mapping runs at delivery time for each
// subscriber, so it always sees the state as it is when the notification
// arrives:
//
//	upper := Map(name, strings.ToUpper)
//
// # Delivery
//
// Notification is synchronous and ordered: subscribers run in subscription
// order, on the goroutine that performed the write, after the write has
// fully completed. A subscriber that writes the signal again during
// delivery starts a nested delivery of the newer value; the outer delivery
// then stops, so no subscriber ever receives a value older than one it has
// already seen.
//
// # Clone on Read
//
// Signals created with NewSliceSignal (or WithClone) hand every reader its
// own copy, so a subscriber can keep or modify what it received without
// affecting the cell or other subscribers.
package reactive
