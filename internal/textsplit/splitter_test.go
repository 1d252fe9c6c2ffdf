package textsplit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSizes(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(50, 50)
	assert.Error(t, err)

	_, err = New(50, -1)
	assert.Error(t, err)

	s, err := New(50, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Size)
}

func TestSplitCounts(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	tests := []struct {
		length int
		want   int
	}{
		{0, 1},
		{17, 1},
		{50, 1},
		{51, 2},
		{90, 2},
		{91, 3},
		{130, 3},
		{131, 4},
		{1000, 25},
	}

	for _, tt := range tests {
		text := strings.Repeat("a", tt.length)
		got := s.Split(text)
		assert.Len(t, got, tt.want, "length %d", tt.length)
		assert.Equal(t, tt.want, Count(tt.length, 50, 10), "count for length %d", tt.length)
	}
}

func TestSplitWindows(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	var b strings.Builder
	for i := 0; i < 130; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	text := b.String()

	windows := s.Split(text)
	require.Len(t, windows, 3)

	for i, w := range windows {
		assert.Equal(t, i*40, w.Offset)
		assert.LessOrEqual(t, len([]rune(w.Text)), 50)
		assert.Equal(t, text[w.Offset:w.Offset+len(w.Text)], w.Text)
	}

	// consecutive windows share exactly the overlap
	for i := 1; i < len(windows); i++ {
		prev := windows[i-1].Text
		assert.Equal(t, prev[len(prev)-10:], windows[i].Text[:10])
	}

	assert.Equal(t, text[80:], windows[2].Text)
}

func TestSplitShortTextIsVerbatim(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"The sky is blue."}, s.SplitText("The sky is blue."))
}

func TestSplitCountsRunes(t *testing.T) {
	s, err := New(5, 1)
	require.NoError(t, err)

	got := s.SplitText("héllo wörld")
	assert.Equal(t, []string{"héllo", "o wör", "rld"}, got)
}
