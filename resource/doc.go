// Package resource tracks ownership of native engine handles.
//
// Every configuration object, speller, and can-have-error object
// the bindings create is recorded in a Table together with the function that
// destroys it. Removing an entry runs that function exactly once; a second
// Remove of the same handle is a no-op, so a native double-destroy cannot be
// reached through the table.
//
// # Handle Table
//
//	table := resource.NewTable()
//
//	// Record a native object and how to destroy it
//	h := table.Insert(resource.KindConfig, resource.ReleaseFunc(func() {
//	    eng.DeleteConfig(ptr)
//	}))
//
//	// Destroy it (runs the release function once)
//	table.Remove(h)
//
// # Borrows
//
// A handle may be borrowed while a dependent object is alive, for example a
// speller while one of its word lists is being drained. A borrowed handle
// cannot be removed until every borrow is returned.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(observer)
//
// Events are delivered synchronously after the table state has changed.
//
// # Teardown
//
// Close releases everything still recorded, newest first, and rejects later
// inserts.
package resource
