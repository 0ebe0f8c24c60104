package multiplet

import (
	"strconv"

	"github.com/RMahshie/nmrsim/pkg/models"
)

// LabelScheme is a label sequence
type LabelScheme int

const (
	// AscendingLetters yields A, B, ..., Z, AA, AB, ...
	AscendingLetters LabelScheme = iota
	// Numbers yields 1, 2, 3, ...
	Numbers
	// DescendingLetters yields Z, Y, ..., A, ZZ, ZY, ...
	DescendingLetters
)

// Labeler hands out labels for one analysis. It is not safe for concurrent
// use; each Analyze call creates its own.
type Labeler struct {
	scheme LabelScheme
	next   int
}

// NewLabeler returns a labeler positioned at the first label
func NewLabeler(scheme LabelScheme) *Labeler {
	return &Labeler{scheme: scheme}
}

// SchemeFor returns the label scheme a mode uses for a nucleus
func SchemeFor(mode Mode, nucleus models.Nucleus) LabelScheme {
	if mode != Visual {
		return AscendingLetters
	}
	switch nucleus {
	case models.Proton:
		return Numbers
	case models.Carbon13:
		return DescendingLetters
	}
	return AscendingLetters
}

// Next returns the next label
func (l *Labeler) Next() string {
	n := l.next
	l.next++
	switch l.scheme {
	case Numbers:
		return strconv.Itoa(n + 1)
	case DescendingLetters:
		label := []byte(letters(n))
		for i, c := range label {
			label[i] = 'Z' - (c - 'A')
		}
		return string(label)
	default:
		return letters(n)
	}
}

// Reset rewinds to the first label
func (l *Labeler) Reset() {
	l.next = 0
}

// letters renders n (0-based) in spreadsheet column style
func letters(n int) string {
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}
