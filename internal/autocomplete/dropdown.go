package autocomplete

import (
	"golang.org/x/text/language"
)

// State is the observable state of a Dropdown.
type State int

const (
	Closed State = iota
	OpenUnfiltered
	OpenFiltered
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenUnfiltered:
		return "open-unfiltered"
	case OpenFiltered:
		return "open-filtered"
	default:
		return "unknown"
	}
}

// Direction moves the highlight.
type Direction int

const (
	Up Direction = iota
	Down
)

// Key is a navigation key understood by HandleKey.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// NoHighlight is the highlight index when nothing is highlighted.
const NoHighlight = -1

// Dropdown is a searchable list with a single selection. It is driven by
// one owner (an input handler, a websocket session) and is not safe for
// concurrent use.
type Dropdown struct {
	ranker    *Ranker
	entries   []Entry // alphabetical
	visible   []Entry
	state     State
	query     string
	highlight int
	selected  *Entry

	onQueryChange []func(query string, visible []Entry)
	onConfirm     []func(Entry)
	onSelect      []func(entry Entry, ok bool)
}

// Option configures a Dropdown.
type Option func(*Dropdown)

// WithLanguage sets the collation language used for alphabetical order.
func WithLanguage(tag language.Tag) Option {
	return func(d *Dropdown) { d.ranker = NewRanker(tag) }
}

// New returns a closed Dropdown over entries.
func New(entries []Entry, opts ...Option) *Dropdown {
	d := &Dropdown{
		ranker:    NewRanker(language.English),
		highlight: NoHighlight,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.entries = d.ranker.Alphabetical(entries)
	d.visible = d.entries
	return d
}

// OnQueryChange registers fn to run after every SetQuery with the new
// visible list.
func (d *Dropdown) OnQueryChange(fn func(query string, visible []Entry)) {
	d.onQueryChange = append(d.onQueryChange, fn)
}

// OnConfirm registers fn to run when the highlighted entry is confirmed.
func (d *Dropdown) OnConfirm(fn func(Entry)) {
	d.onConfirm = append(d.onConfirm, fn)
}

// OnSelect registers fn to run when the selection changes. ok is false
// when the selection was cleared.
func (d *Dropdown) OnSelect(fn func(entry Entry, ok bool)) {
	d.onSelect = append(d.onSelect, fn)
}

// State returns the current state.
func (d *Dropdown) State() State { return d.state }

// Query returns the current query text.
func (d *Dropdown) Query() string { return d.query }

// Entries returns all entries in alphabetical order.
func (d *Dropdown) Entries() []Entry { return clone(d.entries) }

// Visible returns the visible list in display order.
func (d *Dropdown) Visible() []Entry { return clone(d.visible) }

// Highlight returns the highlight index, NoHighlight if none.
func (d *Dropdown) Highlight() int { return d.highlight }

// Highlighted returns the highlighted entry.
func (d *Dropdown) Highlighted() (Entry, bool) {
	if d.highlight < 0 || d.highlight >= len(d.visible) {
		return Entry{}, false
	}
	return d.visible[d.highlight], true
}

// Selected returns the current selection.
func (d *Dropdown) Selected() (Entry, bool) {
	if d.selected == nil {
		return Entry{}, false
	}
	return *d.selected, true
}

// SetQuery filters the list by text. Empty text shows every entry.
func (d *Dropdown) SetQuery(text string) {
	d.query = text
	d.highlight = NoHighlight

	if d.ranker.Normalize(text) == "" {
		d.RestoreOriginalOrder()
		d.state = OpenUnfiltered
	} else {
		d.visible = d.filter(text)
		if len(d.visible) > 0 {
			d.state = OpenFiltered
		} else {
			d.state = Closed
		}
	}

	visible := d.Visible()
	for _, fn := range d.onQueryChange {
		fn(text, visible)
	}
}

// Open shows the list for the current query. With nothing to show the
// dropdown stays closed.
func (d *Dropdown) Open() {
	switch {
	case len(d.visible) == 0:
		d.state = Closed
	case len(d.visible) == len(d.entries) && d.ranker.Normalize(d.query) == "":
		d.state = OpenUnfiltered
	default:
		d.state = OpenFiltered
	}
}

// Close hides the list and drops the highlight.
func (d *Dropdown) Close() {
	d.state = Closed
	d.highlight = NoHighlight
}

// MoveHighlight moves the highlight one step, clamped to
// [NoHighlight, len(visible)-1]. It does nothing while closed.
func (d *Dropdown) MoveHighlight(dir Direction) {
	if d.state == Closed {
		return
	}
	switch dir {
	case Down:
		if d.highlight < len(d.visible)-1 {
			d.highlight++
		}
	case Up:
		if d.highlight > NoHighlight {
			d.highlight--
		}
	}
}

// ConfirmHighlighted selects the highlighted entry, if any.
func (d *Dropdown) ConfirmHighlighted() {
	e, ok := d.Highlighted()
	if !ok {
		return
	}
	for _, fn := range d.onConfirm {
		fn(e)
	}
	d.Select(e)
}

// Select makes e the selection, puts its name in the query and closes the
// list. Entries are matched by code; unknown codes are ignored.
func (d *Dropdown) Select(e Entry) bool {
	known, ok := d.lookup(e.Code)
	if !ok {
		return false
	}
	d.selected = &known
	d.query = known.Name
	d.visible = d.filter(known.Name)
	d.Close()

	for _, fn := range d.onSelect {
		fn(known, true)
	}
	return true
}

// ClearSelection drops the selection and empties the query, reopening the
// full alphabetical list.
func (d *Dropdown) ClearSelection() {
	hadSelection := d.selected != nil
	d.selected = nil
	d.query = ""
	d.RestoreOriginalOrder()
	d.state = OpenUnfiltered

	if hadSelection {
		for _, fn := range d.onSelect {
			fn(Entry{}, false)
		}
	}
}

// RestoreOriginalOrder makes every entry visible in alphabetical order and
// drops the highlight. The state is left unchanged.
func (d *Dropdown) RestoreOriginalOrder() {
	d.visible = d.entries
	d.highlight = NoHighlight
}

// HandleKey applies a navigation key and reports whether it was handled.
func (d *Dropdown) HandleKey(k Key) bool {
	switch k {
	case KeyArrowDown:
		d.MoveHighlight(Down)
	case KeyArrowUp:
		d.MoveHighlight(Up)
	case KeyEnter:
		d.ConfirmHighlighted()
	case KeyEscape:
		d.Close()
	default:
		return false
	}
	return true
}

func (d *Dropdown) filter(query string) []Entry {
	matches := d.ranker.Rank(d.entries, query)
	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = m.Entry
	}
	return out
}

func (d *Dropdown) lookup(code string) (Entry, bool) {
	for _, e := range d.entries {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

func clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
