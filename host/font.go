package host

import "unicode"

const (
	glyphWidth   = 3
	glyphAdvance = 4
	glyphTop     = 1
	lineHeight   = 8
)

// Each glyph is five rows of three bits, most significant bit leftmost.
var glyphs = map[rune][5]uint8{
	'0': {7, 5, 5, 5, 7}, '1': {2, 6, 2, 2, 7}, '2': {7, 1, 7, 4, 7}, '3': {7, 1, 3, 1, 7},
	'4': {5, 5, 7, 1, 1}, '5': {7, 4, 7, 1, 7}, '6': {7, 4, 7, 5, 7}, '7': {7, 1, 2, 2, 2},
	'8': {7, 5, 7, 5, 7}, '9': {7, 5, 7, 1, 7},
	'A': {2, 5, 7, 5, 5}, 'B': {6, 5, 6, 5, 6}, 'C': {3, 4, 4, 4, 3}, 'D': {6, 5, 5, 5, 6},
	'E': {7, 4, 6, 4, 7}, 'F': {7, 4, 6, 4, 4}, 'G': {3, 4, 5, 5, 3}, 'H': {5, 5, 7, 5, 5},
	'I': {7, 2, 2, 2, 7}, 'J': {1, 1, 1, 5, 2}, 'K': {5, 5, 6, 5, 5}, 'L': {4, 4, 4, 4, 7},
	'M': {5, 7, 7, 5, 5}, 'N': {6, 5, 5, 5, 5}, 'O': {2, 5, 5, 5, 2}, 'P': {6, 5, 6, 4, 4},
	'Q': {2, 5, 5, 6, 3}, 'R': {6, 5, 6, 5, 5}, 'S': {3, 4, 2, 1, 6}, 'T': {7, 2, 2, 2, 2},
	'U': {5, 5, 5, 5, 7}, 'V': {5, 5, 5, 5, 2}, 'W': {5, 5, 7, 7, 5}, 'X': {5, 5, 2, 5, 5},
	'Y': {5, 5, 2, 2, 2}, 'Z': {7, 1, 2, 4, 7},
	' ': {}, '.': {0, 0, 0, 0, 2}, ',': {0, 0, 0, 2, 4}, ':': {0, 2, 0, 2, 0},
	'!': {2, 2, 2, 0, 2}, '?': {6, 1, 2, 0, 2}, '-': {0, 0, 7, 0, 0}, '+': {0, 2, 7, 2, 0},
	'/': {1, 1, 2, 4, 4}, '_': {0, 0, 0, 0, 7}, '\'': {2, 2, 0, 0, 0}, '%': {5, 1, 2, 4, 5},
	'(': {1, 2, 2, 2, 1}, ')': {4, 2, 2, 2, 4}, '=': {0, 7, 0, 7, 0}, '#': {5, 7, 5, 7, 5},
}

var unknownGlyph = [5]uint8{7, 7, 7, 7, 7}

func glyph(r rune) [5]uint8 {
	if g, ok := glyphs[unicode.ToUpper(r)]; ok {
		return g
	}
	return unknownGlyph
}

func fontScale(size int) int {
	return max(1, size/lineHeight)
}

// TextWidth returns the width in pixels of text drawn at size.
func TextWidth(text string, size int) int {
	n := 0
	for range text {
		n++
	}
	if n == 0 {
		return 0
	}
	return (n*glyphAdvance - (glyphAdvance - glyphWidth)) * fontScale(size)
}
