// Package resource provides process-local handle management for Go values
// that are stored in raw memory.
//
// Raw memory can only hold integers, so a Go value written into a
// pointer-sized slot is represented by an opaque Handle. The Table keeps the
// value strongly reachable until the handle is removed.
//
// # Handle Table
//
// The Table maps integer handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value, get a handle
//	handle := table.Insert(myValue, false)
//
//	// Retrieve value by handle
//	value, ok := table.Get(handle)
//
//	// Remove and get value
//	value, ok := table.Remove(handle)
//
// # Generations
//
// Slots are reused after removal, but every reuse bumps the slot's
// generation, which is encoded into the handle. A stale handle left behind in
// memory therefore never resolves to a newer value.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(resource.ObserverFunc(func(event resource.Event) {
//	    switch event.Type {
//	    case resource.EventCreated:
//	        log.Printf("handle %d created", event.Handle)
//	    case resource.EventReleased:
//	        log.Printf("handle %d released", event.Handle)
//	    }
//	}))
//
// # Memory Management
//
// Values are not garbage collected while a handle is live. The owner must
// call Remove (or Clear/Close) when the handle is no longer reachable from
// memory. Failure to do so will leak the value.
package resource
