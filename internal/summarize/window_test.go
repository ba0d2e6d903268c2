package summarize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_AppendThenEvict(t *testing.T) {
	w := NewWindow(3)

	evicted := w.Update("p1\n\np2")
	assert.Empty(t, evicted)
	assert.Equal(t, 2, w.Len())

	// Appending two more overflows by one: the single oldest leaves.
	evicted = w.Update("p3\n\np4")
	require.Equal(t, []string{"p1"}, evicted)
	assert.Equal(t, []string{"p2", "p3", "p4"}, w.Paragraphs())
}

func TestWindow_BoundHeldAfterEveryUpdate(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 20; i++ {
		w.Update(fmt.Sprintf("para %d\n\npara %d-b", i, i))
		require.LessOrEqual(t, w.Len(), 3, "update %d", i)
	}
}

func TestWindow_EveryParagraphWrittenOnceInOrder(t *testing.T) {
	w := NewWindow(3)

	var appended []string
	var written []string

	for i := 0; i < 10; i++ {
		a := fmt.Sprintf("alpha %d", i)
		b := fmt.Sprintf("beta %d", i)
		appended = append(appended, a, b)
		written = append(written, w.Update(a+"\n\n"+b)...)
	}
	written = append(written, w.Drain()...)

	if diff := cmp.Diff(appended, written); diff != "" {
		t.Errorf("output paragraphs mismatch (-appended +written):\n%s", diff)
	}
	assert.Equal(t, 0, w.Len(), "window must be empty after drain")
}

func TestWindow_SplitParagraphs(t *testing.T) {
	got := splitParagraphs("  first para  \n\n\n\nsecond\r\n\r\nthird  \n\n")
	want := []string{"first para", "second", "third"}
	assert.Equal(t, want, got)
}

func TestWindow_TrimToBudget(t *testing.T) {
	w := NewWindow(10)
	// ~250 tokens per paragraph at 4 chars/token.
	for i := 0; i < 4; i++ {
		w.Update(strings.Repeat("a", 1000))
	}
	require.Equal(t, 4, w.Len())

	chunk := strings.Repeat("b", 1000) // ~250 tokens
	// Budget for chunk plus roughly two paragraphs.
	evicted := w.TrimToBudget(chunk, 800)
	assert.Len(t, evicted, 2)
	assert.Equal(t, 2, w.Len())

	counter := NewTokenCounter()
	assert.LessOrEqual(t, counter.CountRequest(w.Paragraphs(), chunk), 800)
}

func TestWindow_TrimToBudget_EmptiesWindowWhenChunkAloneExceeds(t *testing.T) {
	w := NewWindow(10)
	w.Update("one\n\ntwo\n\nthree")

	chunk := strings.Repeat("c", 10000)
	evicted := w.TrimToBudget(chunk, 100)
	assert.Equal(t, []string{"one", "two", "three"}, evicted)
	assert.Equal(t, 0, w.Len())
}

func TestTokenCounter_CountString(t *testing.T) {
	tc := NewTokenCounter()
	assert.Equal(t, 0, tc.CountString(""))
	assert.Equal(t, 25, tc.CountString(strings.Repeat("x", 100)))
	// Rune-based: 8 CJK runes ≈ 2 tokens, not byte count / 4.
	assert.Equal(t, 2, tc.CountString("日本語テキスト日"))
}
