package dq

// Progress is one indicator in a progress tree, owned by the unit of work
// that created it. All methods are safe for concurrent use and never fail.
type Progress interface {
	// SetPosition sets the current position (bytes or items).
	SetPosition(n int64)

	// Inc advances the position by n.
	Inc(n int64)

	// SetTotal sets the expected final position.
	SetTotal(n int64)

	// SetMessage replaces the trailing message.
	SetMessage(msg string)

	// UpdateTemplate switches to a determinate byte bar when total >= 0 and
	// to an indeterminate byte counter when total < 0.
	UpdateTemplate(total int64)

	// Finish stops the indicator and shows msg.
	Finish(msg string)
}

// ProgressTree creates and removes progress indicators arranged as a tree
// that mirrors the tree of concurrent work.
type ProgressTree interface {
	// AddRoot adds a top-level item counter.
	AddRoot() Progress

	// AddChild adds a byte indicator as the last child of parent.
	// A negative total means the size is unknown.
	AddChild(parent Progress, total int64) Progress

	// AddMessage adds a message-only indicator as the last child of parent,
	// or at the top level if parent is nil.
	AddMessage(parent Progress) Progress

	// Remove detaches p and every indicator still attached below it.
	Remove(p Progress)
}
