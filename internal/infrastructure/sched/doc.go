// Package sched provides named, cancellable, bounded retry tasks.
//
// The session core waits on two preconditions it cannot observe directly:
// an anchor view acquiring a window, and the platform's start-possible
// predicate becoming true. Both are polled cooperatively on a fixed
// interval with a hard attempt budget, so an unsatisfiable precondition
// surfaces as a reported give-up instead of a silent infinite loop.
package sched
