package tracking

import (
	"reflect"
	"testing"
)

type fakeDisplay struct {
	confirmShown  int
	confirmHidden int
	highlights    []Passage
	list          []Passage
	refreshes     int
}

func (d *fakeDisplay) ShowConfirm(anchor Rect) { d.confirmShown++ }
func (d *fakeDisplay) HideConfirm()            { d.confirmHidden++ }
func (d *fakeDisplay) Highlight(p Passage)     { d.highlights = append(d.highlights, p) }
func (d *fakeDisplay) RefreshList(ps []Passage) {
	d.list = ps
	d.refreshes++
}

func staticFragments(fragments ...string) Fragments {
	return func() []string { return fragments }
}

func TestGlobalOffset(t *testing.T) {
	fragments := []string{"Hello ", "world, this is ", "the article."}

	cases := []struct {
		fragment, offset, want int
	}{
		{0, 0, 0},
		{0, 3, 3},
		{1, 0, 6},
		{1, 7, 13},
		{2, 4, 25},
	}
	for _, c := range cases {
		if got := GlobalOffset(fragments, c.fragment, c.offset); got != c.want {
			t.Errorf("GlobalOffset(fragment=%d, offset=%d) = %d, want %d", c.fragment, c.offset, got, c.want)
		}
	}
}

func TestGlobalOffsetCountsCharactersNotBytes(t *testing.T) {
	fragments := []string{"héllo ", "wörld"}
	if got := GlobalOffset(fragments, 1, 2); got != 8 {
		t.Fatalf("GlobalOffset over multi-byte text = %d, want 8", got)
	}
}

func TestConfirmRecordsPassageWithConsistentOffsets(t *testing.T) {
	display := &fakeDisplay{}
	m := NewMarker(staticFragments("Hello ", "world, this is ", "the article."), display)

	m.HandleSelectionEnd(Selection{Text: "this is the", Fragment: 1, Offset: 7})
	if display.confirmShown != 1 {
		t.Fatalf("confirm control shown %d times, want 1", display.confirmShown)
	}

	m.Confirm()
	passages := m.Passages()
	if len(passages) != 1 {
		t.Fatalf("passage count = %d, want 1", len(passages))
	}
	p := passages[0]
	if p.StartOffset != 13 {
		t.Fatalf("start offset = %d, want 13", p.StartOffset)
	}
	if p.EndOffset-p.StartOffset != len([]rune(p.TextContent)) {
		t.Fatalf("end-start = %d, want text length %d", p.EndOffset-p.StartOffset, len([]rune(p.TextContent)))
	}
	if len(display.highlights) != 1 || display.refreshes != 1 {
		t.Fatalf("display not updated: %+v", display)
	}

	// Confirm with no pending selection is a no-op.
	m.Confirm()
	if len(m.Passages()) != 1 {
		t.Fatalf("confirm without pending selection created a passage")
	}
}

func TestSelectionOutsideContainerIsIgnored(t *testing.T) {
	display := &fakeDisplay{}
	m := NewMarker(staticFragments("article body"), display)

	m.HandleSelectionEnd(Selection{Text: "sidebar text", Fragment: -1, Offset: 0})
	m.Confirm()

	if len(m.Passages()) != 0 {
		t.Fatalf("out-of-container selection created a passage")
	}
	if display.confirmShown != 0 || display.confirmHidden == 0 {
		t.Fatalf("confirm control state wrong: %+v", display)
	}
}

func TestOutsideClickCancelsPendingSelection(t *testing.T) {
	display := &fakeDisplay{}
	m := NewMarker(staticFragments("article body"), display)

	m.HandleSelectionEnd(Selection{Text: "body", Fragment: 0, Offset: 8})
	m.HandleOutsideClick()
	m.Confirm()

	if len(m.Passages()) != 0 {
		t.Fatalf("cancelled selection still produced a passage")
	}
}

func TestConfirmRewalksFragmentsEachTime(t *testing.T) {
	// Highlight insertion splits fragments; the second confirm must see the
	// new walk, not a stale one.
	walks := [][]string{
		{"alpha beta gamma"},
		{"alpha ", "beta", " gamma"},
	}
	walk := 0
	fragments := func() []string {
		w := walks[walk]
		if walk < len(walks)-1 {
			walk++
		}
		return w
	}
	display := &fakeDisplay{}
	m := NewMarker(fragments, display)

	m.HandleSelectionEnd(Selection{Text: "beta", Fragment: 0, Offset: 6})
	m.Confirm()
	m.HandleSelectionEnd(Selection{Text: "gamma", Fragment: 2, Offset: 1})
	m.Confirm()

	want := []Passage{
		{TextContent: "beta", StartOffset: 6, EndOffset: 10},
		{TextContent: "gamma", StartOffset: 11, EndOffset: 16},
	}
	if !reflect.DeepEqual(m.Passages(), want) {
		t.Fatalf("passages = %+v, want %+v", m.Passages(), want)
	}
}

func TestRemoveDeletesListEntryButKeepsHighlight(t *testing.T) {
	display := &fakeDisplay{}
	m := NewMarker(staticFragments("some article text"), display)

	m.HandleSelectionEnd(Selection{Text: "article", Fragment: 0, Offset: 5})
	m.Confirm()
	m.Remove(0)

	if len(m.Passages()) != 0 {
		t.Fatalf("passage list not empty after removal")
	}
	// The rendered highlight is not undone; only the list entry goes away.
	if len(display.highlights) != 1 {
		t.Fatalf("highlight count after removal = %d, want 1", len(display.highlights))
	}
	if len(display.list) != 0 {
		t.Fatalf("displayed list not refreshed after removal")
	}

	// Out-of-range removals are ignored.
	m.Remove(0)
	m.Remove(-1)
}
