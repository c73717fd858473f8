package progress

import (
	"slices"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/dq"
)

// Prefix glyphs, one per ancestor level.
const (
	PrefixEmpty  = "    "
	PrefixNormal = "│   "
	PrefixMiddle = "├── "
	PrefixLast   = "└── "
)

const barWidth = 40

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const finishedGlyph = "✓"

// barTemplate is a parsed line layout. Templates are built once at package
// initialization and only read afterwards.
type barTemplate struct {
	tmpl *template.Template
}

func mustTemplate(name, text string) *barTemplate {
	return &barTemplate{tmpl: template.Must(template.New(name).Parse(text))}
}

var (
	knownTotalTemplate = mustTemplate("known",
		"{{.Prefix}}{{.Spinner}} [{{.Bar}}] {{.Bytes}}/{{.TotalBytes}} {{.Rate}} ({{.ETA}}) {{.Message}}")
	unknownTotalTemplate = mustTemplate("unknown",
		"{{.Prefix}}{{.Spinner}} {{.Bytes}} {{.Rate}} {{.Message}}")
	messageTemplate = mustTemplate("message",
		"{{.Prefix}}{{.Spinner}} {{.Message}}")
	counterTemplate = mustTemplate("counter",
		"{{.Prefix}}{{.Spinner}} [{{.Bar}}] {{.Pos}}/{{.Total}} {{.Message}}")
)

// lineData holds the fields a template may reference.
type lineData struct {
	Prefix     string
	Spinner    string
	Bar        string
	Bytes      string
	TotalBytes string
	Rate       string
	ETA        string
	Pos        string
	Total      string
	Message    string
}

// Ensure Bar implements dq.Progress at compile time.
var _ dq.Progress = (*Bar)(nil)

// Bar is one indicator of a Tree.
// The parent pointer is only used to compute the prefix and to detach the
// bar; a bar's children are owned through its children slice.
type Bar struct {
	tree *Tree

	mu       sync.Mutex
	parent   *Bar
	children []*Bar
	level    int
	isLast   bool
	tmpl     *barTemplate
	pos      int64
	total    int64
	msg      string
	started  time.Time
	ended    time.Time
	finished bool
}

// SetPosition sets the current position.
func (b *Bar) SetPosition(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = n
}

// Inc advances the position by n.
func (b *Bar) Inc(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos += n
}

// SetTotal sets the expected final position.
func (b *Bar) SetTotal(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = n
}

// SetMessage replaces the trailing message.
func (b *Bar) SetMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msg = msg
}

// UpdateTemplate switches between the determinate byte template (total >= 0)
// and the indeterminate one (total < 0).
func (b *Bar) UpdateTemplate(total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if total >= 0 {
		b.tmpl = knownTotalTemplate
		b.total = total
		return
	}
	b.tmpl = unknownTotalTemplate
	b.total = -1
}

// Finish stops the spinner, fills a determinate bar and shows msg.
func (b *Bar) Finish(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finished = true
	b.ended = b.tree.now()
	b.msg = msg
	if b.total > b.pos {
		b.pos = b.total
	}
}

// Position returns the current position.
func (b *Bar) Position() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

// Message returns the trailing message.
func (b *Bar) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.msg
}

// Finished reports whether Finish was called.
func (b *Bar) Finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}

// Level returns the nesting depth; top-level bars are at level 0.
func (b *Bar) Level() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

// IsLast reports whether b is currently its parent's last child.
func (b *Bar) IsLast() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isLast
}

// Children returns the bars currently attached below b, oldest first.
func (b *Bar) Children() []*Bar {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.children)
}

// Prefix returns the tree-drawing prefix of b, built by walking up to the
// top level: a branch or corner glyph for b itself, then a vertical line for
// every ancestor that has later siblings and blank space for one that does not.
func (b *Bar) Prefix() string {
	var glyphs []string
	for n := b; ; {
		n.mu.Lock()
		parent, last := n.parent, n.isLast
		n.mu.Unlock()
		if parent == nil {
			break
		}

		switch {
		case len(glyphs) == 0 && last:
			glyphs = append(glyphs, PrefixLast)
		case len(glyphs) == 0:
			glyphs = append(glyphs, PrefixMiddle)
		case last:
			glyphs = append(glyphs, PrefixEmpty)
		default:
			glyphs = append(glyphs, PrefixNormal)
		}
		n = parent
	}
	slices.Reverse(glyphs)
	return strings.Join(glyphs, "")
}

// render formats b for the given animation frame.
func (b *Bar) render(frame int, now time.Time) string {
	prefix := b.Prefix()

	b.mu.Lock()
	defer b.mu.Unlock()

	spinner := spinnerFrames[frame%len(spinnerFrames)]
	end := now
	if b.finished {
		spinner = finishedGlyph
		end = b.ended
	}

	var rate float64
	if elapsed := end.Sub(b.started).Seconds(); elapsed > 0 {
		rate = float64(b.pos) / elapsed
	}

	data := lineData{
		Prefix:     prefix,
		Spinner:    spinner,
		Bar:        drawBar(b.pos, b.total),
		Bytes:      humanize.IBytes(uint64(max(b.pos, 0))),
		TotalBytes: humanize.IBytes(uint64(max(b.total, 0))),
		Rate:       humanize.IBytes(uint64(rate)) + "/s",
		ETA:        eta(b.pos, b.total, rate),
		Pos:        humanize.Comma(b.pos),
		Total:      humanize.Comma(max(b.total, 0)),
		Message:    b.msg,
	}

	var sb strings.Builder
	if err := b.tmpl.tmpl.Execute(&sb, data); err != nil {
		return prefix + b.msg
	}
	return strings.TrimRight(sb.String(), " ")
}

func drawBar(pos, total int64) string {
	if total <= 0 {
		return strings.Repeat("-", barWidth)
	}
	filled := int(min(pos, total) * barWidth / total)
	if filled >= barWidth {
		return strings.Repeat("=", barWidth)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat("-", barWidth-filled-1)
}

func eta(pos, total int64, rate float64) string {
	if total <= pos || rate <= 0 {
		return "0s"
	}
	remaining := time.Duration(float64(total-pos) / rate * float64(time.Second))
	return remaining.Round(time.Second).String()
}
