package content

// Renderable is an opaque handle to host-toolkit content. The service
// never renders; it only tracks which content the floating window shows
// and hands the descriptor to the host for drawing.
type Renderable interface {
	// ContentID identifies the content for logs and wire messages
	ContentID() string
}

// Factory produces renderable content on demand. It is the type-erased
// "build content" capability supplied by the host: called once per embed,
// never cached across swaps.
type Factory func() Renderable

// Lifecycle is optionally implemented by renderables that track their
// parent. On a swap the outgoing child sees WillMove(nil) before it is
// removed; the incoming child sees WillMove(c) then DidMove(c).
type Lifecycle interface {
	WillMove(parent *Container)
	DidMove(parent *Container)
}

// Blueprint is a renderable described by a host-supplied spec, the
// ordinary content kind registered over the API.
type Blueprint struct {
	ID   string
	Spec map[string]interface{}
}

// ContentID implements Renderable
func (b *Blueprint) ContentID() string {
	return b.ID
}

// placeholder is embedded when a controller must be constructed before
// any real content is configured.
type placeholder struct{}

func (placeholder) ContentID() string { return "placeholder" }

// Placeholder returns a factory producing empty content
func Placeholder() Factory {
	return func() Renderable { return placeholder{} }
}

// IsPlaceholder reports whether r is the empty placeholder content
func IsPlaceholder(r Renderable) bool {
	_, ok := r.(placeholder)
	return ok
}
