// Package progress renders a live tree of progress indicators.
//
// Each indicator (Bar) knows its parent, its children and whether it is the
// last child of its parent. Lines are drawn in tree order with a box-drawing
// prefix computed from the chain of ancestors, so concurrent work started by
// a unit of work appears nested beneath it.
package progress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/dq"
	"golang.org/x/term"
)

// DefaultInterval is how often a visible tree redraws.
const DefaultInterval = 100 * time.Millisecond

// Ensure Tree implements dq.ProgressTree at compile time.
var _ dq.ProgressTree = (*Tree)(nil)

// Tree owns the indicators and their display order.
//
// Lock order: Tree.mu before any Bar.mu, and a parent's Bar.mu before its
// children's.
type Tree struct {
	out      io.Writer
	hidden   bool
	size     func() (width, height int)
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	order   []*Bar
	lines   int
	frame   int
	running bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Tree.
type Option func(*Tree)

// WithSize sets the function reporting the terminal size in cells.
func WithSize(fn func() (width, height int)) Option {
	return func(t *Tree) {
		t.size = fn
	}
}

// WithInterval sets the redraw interval.
// Defaults to DefaultInterval if not specified.
func WithInterval(d time.Duration) Option {
	return func(t *Tree) {
		t.interval = d
	}
}

// WithHidden disables drawing. The tree still tracks its indicators.
func WithHidden() Option {
	return func(t *Tree) {
		t.hidden = true
	}
}

// WithClock sets the time source used for rates and ETAs.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) {
		t.now = now
	}
}

// New creates a Tree drawing to out.
func New(out io.Writer, opts ...Option) *Tree {
	t := &Tree{
		out:      out,
		size:     func() (int, int) { return 120, 40 },
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Hidden returns a Tree that never draws.
func Hidden() *Tree {
	return New(io.Discard, WithHidden())
}

// ForTerminal returns a Tree drawing to f when enabled is set and f is a
// terminal, and a hidden Tree otherwise.
func ForTerminal(f *os.File, enabled bool) *Tree {
	fd := int(f.Fd())
	if !enabled || !term.IsTerminal(fd) {
		return Hidden()
	}
	return New(f, WithSize(func() (int, int) {
		w, h, err := term.GetSize(fd)
		if err != nil || w <= 0 || h <= 0 {
			return 120, 40
		}
		return w, h
	}))
}

// AddRoot adds a top-level item counter.
func (t *Tree) AddRoot() dq.Progress {
	b := t.newBar(nil, counterTemplate)

	t.mu.Lock()
	t.order = append(t.order, b)
	t.mu.Unlock()

	t.start()
	return b
}

// AddChild adds a byte indicator as the last child of parent.
// A negative total selects the indeterminate template.
func (t *Tree) AddChild(parent dq.Progress, total int64) dq.Progress {
	tmpl := unknownTotalTemplate
	if total >= 0 {
		tmpl = knownTotalTemplate
	}
	b := t.newBar(t.own(parent), tmpl)
	if total >= 0 {
		b.total = total
	}
	t.attach(b)
	return b
}

// AddMessage adds a message-only indicator under parent, or at the top
// level when parent is nil.
func (t *Tree) AddMessage(parent dq.Progress) dq.Progress {
	b := t.newBar(t.own(parent), messageTemplate)
	t.attach(b)
	return b
}

// Remove detaches p from its parent and from the display, first removing
// any children still attached to it. Removing twice is harmless.
func (t *Tree) Remove(p dq.Progress) {
	b := t.own(p)
	if b == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(b)
}

// Stop halts redrawing after drawing a final frame. The tree never writes
// to its output again, so output printed after Stop stays intact.
func (t *Tree) Stop() {
	if t.halt() {
		t.draw()
	}
	t.release()
}

// Clear halts redrawing and erases the lines drawn so far.
func (t *Tree) Clear() {
	t.halt()
	t.mu.Lock()
	if t.lines > 0 {
		_, _ = fmt.Fprintf(t.out, "\x1b[%dA\x1b[J", t.lines)
	}
	t.mu.Unlock()
	t.release()
}

// halt stops the redraw loop for good and reports whether it was running.
func (t *Tree) halt() bool {
	t.mu.Lock()
	running, stop, done := t.running, t.stop, t.done
	t.running = false
	t.closed = true
	t.mu.Unlock()

	if !running {
		return false
	}
	close(stop)
	<-done
	return true
}

// release forgets the drawn frame so that later calls leave the output alone.
func (t *Tree) release() {
	t.mu.Lock()
	t.lines = 0
	t.mu.Unlock()
}

// Lines renders the current frame without terminal control sequences.
func (t *Tree) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.render()
}

// own returns p as a Bar of this tree, or nil for foreign or nil values.
func (t *Tree) own(p dq.Progress) *Bar {
	b, ok := p.(*Bar)
	if !ok || b == nil || b.tree != t {
		return nil
	}
	return b
}

func (t *Tree) newBar(parent *Bar, tmpl *barTemplate) *Bar {
	b := &Bar{
		tree:    t,
		parent:  parent,
		tmpl:    tmpl,
		total:   -1,
		started: t.now(),
		isLast:  true,
	}
	if parent != nil {
		parent.mu.Lock()
		b.level = parent.level + 1
		parent.mu.Unlock()
	}
	return b
}

// attach inserts b after the last line of its parent's subtree and makes it
// the parent's last child.
func (t *Tree) attach(b *Bar) {
	t.mu.Lock()
	if b.parent == nil {
		t.order = append(t.order, b)
	} else {
		anchor := lastDescendant(b.parent)

		b.parent.mu.Lock()
		if n := len(b.parent.children); n > 0 {
			prev := b.parent.children[n-1]
			prev.mu.Lock()
			prev.isLast = false
			prev.mu.Unlock()
		}
		b.parent.children = append(b.parent.children, b)
		b.parent.mu.Unlock()

		if i := slices.Index(t.order, anchor); i >= 0 {
			t.order = slices.Insert(t.order, i+1, b)
		} else {
			t.order = append(t.order, b)
		}
	}
	t.mu.Unlock()

	t.start()
}

func (t *Tree) remove(b *Bar) {
	b.mu.Lock()
	children := slices.Clone(b.children)
	parent := b.parent
	b.mu.Unlock()

	for _, child := range children {
		t.remove(child)
	}

	if parent != nil {
		parent.mu.Lock()
		if i := slices.Index(parent.children, b); i >= 0 {
			parent.children = slices.Delete(parent.children, i, i+1)
			if n := len(parent.children); n > 0 && i == n {
				last := parent.children[n-1]
				last.mu.Lock()
				last.isLast = true
				last.mu.Unlock()
			}
		}
		parent.mu.Unlock()
	}

	t.order = slices.DeleteFunc(t.order, func(x *Bar) bool { return x == b })
}

// lastDescendant returns the deepest last descendant of b, or b itself.
func lastDescendant(b *Bar) *Bar {
	for {
		b.mu.Lock()
		n := len(b.children)
		var last *Bar
		if n > 0 {
			last = b.children[n-1]
		}
		b.mu.Unlock()
		if last == nil {
			return b
		}
		b = last
	}
}

// start launches the redraw loop once, unless the tree is hidden or stopped.
func (t *Tree) start() {
	if t.hidden {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.closed {
		return
	}
	t.running = true
	stop, done := make(chan struct{}), make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.draw()
			}
		}
	}()
}

// draw redraws the frame in place.
func (t *Tree) draw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frame++
	lines := t.render()

	var buf bytes.Buffer
	if t.lines > 0 {
		fmt.Fprintf(&buf, "\x1b[%dA", t.lines)
	}
	for _, line := range lines {
		buf.WriteString("\r\x1b[2K")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteString("\x1b[J")
	t.lines = len(lines)

	_, _ = t.out.Write(buf.Bytes())
}

// render returns one line per indicator, truncated to the terminal size.
// The caller must hold t.mu.
func (t *Tree) render() []string {
	width, height := t.size()
	now := t.now()

	bars := t.order
	var hiddenCount int
	if limit := height - 1; limit > 1 && len(bars) > limit {
		hiddenCount = len(bars) - (limit - 1)
		bars = bars[:limit-1]
	}

	lines := make([]string, 0, len(bars)+1)
	for _, b := range bars {
		lines = append(lines, truncate(b.render(t.frame, now), width))
	}
	if hiddenCount > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", hiddenCount))
	}
	return lines
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
