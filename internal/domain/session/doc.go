// Package session implements the PiP session state machine.
//
// A Manager owns one platform controller, the persistent anchor surface,
// and the content container, and drives them through the session
// lifecycle:
//
//	uninitialized → anchor_pending → ready ⇄ active
//	active → stopping_for_restore → restore_pending → ready
//
// The controller is constructed lazily once an anchor and content exist
// and is never recreated; content and anchor geometry are mutated in
// place. Waiting on preconditions (anchor view acquiring a window, the
// platform's start-possible predicate) is done with bounded cooperative
// retries; exhaustion is reported, never spun on. Platform lifecycle
// events arrive asynchronously and are applied as direct transitions.
//
// Example Usage:
//
//	manager := session.NewManager(driver, views, cfg.PiP).WithLogger(logger)
//	manager.AttachAnchor("thumbnail")
//	manager.Start(session.StartOptions{Content: factory})
package session
