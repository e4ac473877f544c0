package tracking

import "unicode/utf8"

// Passage is a user-nominated difficult substring of the article body.
// Offsets are character positions into the concatenated visible text of the
// article container, with EndOffset = StartOffset + len(TextContent) in
// characters.
type Passage struct {
	TextContent string `json:"text_content"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// Rect is the bounding box of a selection, used to anchor the confirm
// control near it.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Selection is a text selection already resolved against the article
// container's fragment walk. Fragment is the index of the fragment holding
// the selection start, or -1 when the selection starts outside the
// container. Offset is the character offset within that fragment.
type Selection struct {
	Text     string
	Fragment int
	Offset   int
	Anchor   Rect
}

// Fragments supplies the ordered visible text fragments of the article
// container. It is called freshly on every confirm, because confirming a
// passage inserts highlight markup that changes the fragment structure for
// anything confirmed later.
type Fragments func() []string

// MarkerDisplay is the rendering surface the marker drives.
type MarkerDisplay interface {
	ShowConfirm(anchor Rect)
	HideConfirm()
	Highlight(p Passage)
	RefreshList(passages []Passage)
}

// Marker records highlighted spans of the article body as stable character
// offsets and drives their visual rendering.
type Marker struct {
	fragments Fragments
	display   MarkerDisplay
	pending   *Selection
	passages  []Passage
}

func NewMarker(fragments Fragments, display MarkerDisplay) *Marker {
	return &Marker{fragments: fragments, display: display}
}

// HandleSelectionEnd stores a non-empty selection contained in the article
// container as pending and shows the confirm control next to it. Selections
// that are empty or start outside the container are ignored and any previous
// pending selection is cleared.
func (m *Marker) HandleSelectionEnd(sel Selection) {
	if sel.Text == "" || sel.Fragment < 0 {
		m.clearPending()
		return
	}
	m.pending = &sel
	m.display.ShowConfirm(sel.Anchor)
}

// HandleOutsideClick cancels the pending selection, even mid-selection.
func (m *Marker) HandleOutsideClick() {
	m.clearPending()
}

// Confirm turns the pending selection into a passage. The global start
// offset is computed against a fresh fragment walk; the end offset follows
// from the selected text's length.
func (m *Marker) Confirm() {
	if m.pending == nil {
		return
	}
	sel := *m.pending

	start := GlobalOffset(m.fragments(), sel.Fragment, sel.Offset)
	p := Passage{
		TextContent: sel.Text,
		StartOffset: start,
		EndOffset:   start + utf8.RuneCountInString(sel.Text),
	}
	m.passages = append(m.passages, p)
	m.display.Highlight(p)
	m.display.RefreshList(m.passages)
	m.clearPending()
}

// Remove deletes the passage at index i from the list and refreshes the
// display. The rendered highlight stays in place: un-wrapping the mark would
// re-split the text nodes it was inserted into, so removal only affects the
// submitted list.
func (m *Marker) Remove(i int) {
	if i < 0 || i >= len(m.passages) {
		return
	}
	m.passages = append(m.passages[:i], m.passages[i+1:]...)
	m.display.RefreshList(m.passages)
}

// Passages returns a copy of the current passage list.
func (m *Marker) Passages() []Passage {
	out := make([]Passage, len(m.passages))
	copy(out, m.passages)
	return out
}

func (m *Marker) clearPending() {
	m.pending = nil
	m.display.HideConfirm()
}

// GlobalOffset converts a (fragment index, in-fragment character offset)
// pair into a character offset into the concatenation of all fragments in
// document order.
func GlobalOffset(fragments []string, fragment, offset int) int {
	total := 0
	for i := 0; i < fragment && i < len(fragments); i++ {
		total += utf8.RuneCountInString(fragments[i])
	}
	return total + offset
}
