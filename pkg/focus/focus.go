// Package focus provides focus management for form fields.
//
// A Scope owns an ordered set of Nodes and tracks which one holds primary
// focus. Scopes are explicit instances wired in by whoever constructs the
// field tree; there is no ambient global manager. A form typically owns one
// Scope and attaches each field's Node in registration order, which makes
// MoveFocus traverse fields in that order.
//
// Nodes follow an owned-or-borrowed discipline: the component that created a
// Node calls Dispose on it, and nobody else does. A component handed an
// externally created Node must detach its own listeners but leave the Node
// alive.
package focus

// Node represents a focusable element.
type Node struct {
	// CanRequestFocus gates whether the node may receive focus.
	CanRequestFocus bool
	// SkipTraversal excludes the node from MoveFocus walks while still
	// allowing direct RequestFocus calls.
	SkipTraversal bool
	// Label is a debug label for the node.
	Label string

	scope          *Scope
	hasFocus       bool
	disposed       bool
	listeners      map[int]func(hasFocus bool)
	nextListenerID int
}

// NewNode creates a focusable node.
func NewNode() *Node {
	return &Node{
		CanRequestFocus: true,
		listeners:       make(map[int]func(bool)),
	}
}

// canReceiveFocus reports whether the node can receive focus.
func (n *Node) canReceiveFocus() bool {
	return n != nil && !n.disposed && n.CanRequestFocus
}

// traversable reports whether the node participates in MoveFocus walks.
func (n *Node) traversable() bool {
	return n.canReceiveFocus() && !n.SkipTraversal
}

// HasFocus reports whether this node holds primary focus.
func (n *Node) HasFocus() bool {
	return n.hasFocus
}

// Scope returns the scope the node is attached to, or nil.
func (n *Node) Scope() *Scope {
	return n.scope
}

// AddListener registers a callback invoked when the node gains or loses
// focus. Returns an unsubscribe function.
func (n *Node) AddListener(fn func(hasFocus bool)) func() {
	if n.listeners == nil {
		n.listeners = make(map[int]func(bool))
	}
	id := n.nextListenerID
	n.nextListenerID++
	n.listeners[id] = fn

	return func() {
		delete(n.listeners, id)
	}
}

// RequestFocus asks the node's scope to give this node primary focus.
// A node that is detached, disposed, or unfocusable is left unchanged.
func (n *Node) RequestFocus() {
	if !n.canReceiveFocus() || n.scope == nil {
		return
	}
	n.scope.setPrimary(n)
}

// Unfocus removes focus from this node if it currently holds it.
func (n *Node) Unfocus() {
	if n.scope == nil || n.scope.primary != n {
		return
	}
	n.scope.setPrimary(nil)
}

// Dispose detaches the node from its scope and drops all listeners.
// Only the creator of a node may dispose it; borrowed nodes are detached
// by their borrower but disposed by their owner.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.scope != nil {
		n.scope.Detach(n)
	}
	n.disposed = true
	n.listeners = nil
}

// setFocusState updates the focus flag and notifies listeners.
func (n *Node) setFocusState(hasFocus bool) {
	n.hasFocus = hasFocus
	// Copy before invoking so a listener may unsubscribe itself.
	fns := make([]func(bool), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(hasFocus)
	}
}

// Scope tracks an ordered collection of nodes and the primary focus among
// them. The order is attachment order.
type Scope struct {
	nodes   []*Node
	primary *Node
}

// NewScope creates an empty focus scope.
func NewScope() *Scope {
	return &Scope{}
}

// Attach adds a node to the end of the scope's traversal order.
// A node already attached to another scope is detached from it first;
// re-attaching to the same scope moves the node to the end.
func (s *Scope) Attach(n *Node) {
	if n == nil || n.disposed {
		return
	}
	if n.scope != nil {
		n.scope.Detach(n)
	}
	n.scope = s
	s.nodes = append(s.nodes, n)
}

// Detach removes a node from the scope. If the node held primary focus,
// focus is cleared (the node observes a focus loss).
func (s *Scope) Detach(n *Node) {
	if n == nil || n.scope != s {
		return
	}
	for i, node := range s.nodes {
		if node == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	n.scope = nil
	if s.primary == n {
		s.primary = nil
		n.setFocusState(false)
	}
}

// Primary returns the node holding primary focus, or nil.
func (s *Scope) Primary() *Node {
	return s.primary
}

// Nodes returns the attached nodes in traversal order.
func (s *Scope) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// FocusFirst moves focus to the first traversable node.
// Returns false when the scope has no focusable node.
func (s *Scope) FocusFirst() bool {
	for _, n := range s.nodes {
		if n.traversable() {
			s.setPrimary(n)
			return true
		}
	}
	return false
}

// MoveFocus moves focus by delta positions in traversal order, wrapping at
// either end and skipping unfocusable nodes. When nothing holds focus, a
// positive delta focuses the first traversable node and a negative delta
// the last. Returns false when no traversable node exists.
func (s *Scope) MoveFocus(delta int) bool {
	count := len(s.nodes)
	if count == 0 || delta == 0 {
		return false
	}

	currentIndex := s.primaryIndex()
	if currentIndex < 0 && delta < 0 {
		// No focus yet: start past the end so the first backward step
		// lands on the last node.
		currentIndex = count
	}
	for step := 1; step <= count; step++ {
		candidate := s.nodes[wrapIndex(currentIndex+delta*step, count)]
		if candidate.traversable() {
			s.setPrimary(candidate)
			return true
		}
	}
	return false
}

// primaryIndex returns the index of the focused node, or -1 if none.
func (s *Scope) primaryIndex() int {
	for i, n := range s.nodes {
		if n == s.primary {
			return i
		}
	}
	return -1
}

// wrapIndex wraps an index to stay within [0, count).
func wrapIndex(index, count int) int {
	index = index % count
	if index < 0 {
		index += count
	}
	return index
}

// setPrimary updates the primary focus to the given node.
func (s *Scope) setPrimary(n *Node) {
	if s.primary == n {
		return
	}
	if s.primary != nil {
		s.primary.setFocusState(false)
	}
	s.primary = n
	if n != nil {
		n.setFocusState(true)
	}
}
