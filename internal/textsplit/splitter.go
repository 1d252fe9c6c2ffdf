// Package textsplit cuts page text into fixed-size overlapping windows.
package textsplit

import "fmt"

// Window is one piece of split text and its rune offset in the source
type Window struct {
	Text   string
	Offset int
}

// Splitter produces windows of Size runes, each starting Size-Overlap runes after the previous one.
type Splitter struct {
	Size    int
	Overlap int
}

// New returns a splitter, rejecting sizes that would never advance.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Splitter{Size: size, Overlap: overlap}, nil
}

// Split returns the windows of text. Text no longer than Size is a single window.
func (s *Splitter) Split(text string) []Window {
	runes := []rune(text)
	total := len(runes)

	if total <= s.Size {
		return []Window{{Text: text, Offset: 0}}
	}

	step := s.Size - s.Overlap
	windows := make([]Window, 0, Count(total, s.Size, s.Overlap))
	for i := 0; i < total; i += step {
		end := i + s.Size
		if end > total {
			end = total
		}

		windows = append(windows, Window{Text: string(runes[i:end]), Offset: i})

		if end == total {
			break
		}
	}

	return windows
}

// SplitText is Split returning only the texts.
func (s *Splitter) SplitText(text string) []string {
	windows := s.Split(text)
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.Text
	}
	return out
}

// Count is the number of windows Split yields for a text of length runes:
// ceil((length-overlap)/(size-overlap)), and 1 when length <= size.
func Count(length, size, overlap int) int {
	if length <= size {
		return 1
	}
	step := size - overlap
	return (length - overlap + step - 1) / step
}
