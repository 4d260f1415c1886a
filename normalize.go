package svar

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// IndexWidth is the number of bytes a structured selection index occupies in
// the canonical answer.
const IndexWidth = 2

// isTrimmed reports whether r is dropped from freeform answers. Besides white
// space these are punctuation marks people tend to add or omit between
// sittings.
func isTrimmed(r rune) bool {
	switch r {
	case '.', '!', '?',
		'\'', '"',
		'\u2018', // left single quotation mark
		'\u2019', // right single quotation mark
		'\uff07': // fullwidth apostrophe
		return true
	}
	return unicode.IsSpace(r)
}

// Normalize returns the canonical bytes of answer a to question q. Freeform
// answers that differ only in case, white space or the trimmed punctuation
// normalize identically. The caller owns the returned slice and should wipe
// it when done.
func Normalize(q Question, a Answer) ([]byte, error) {
	if a.kind != q.Kind {
		return nil, fmt.Errorf("%w: %s answer to %s question", ErrInvalidAnswerFormat, a.kind, q.Kind)
	}

	switch a.kind {
	case KindFreeform:
		return normalizeFreeform(a.text)
	case KindStructured:
		return normalizeStructured(q.Format.Levels, a.indices)
	default:
		return nil, fmt.Errorf("%w: unknown answer kind %d", ErrInvalidAnswerFormat, uint8(a.kind))
	}
}

// CanonicalText returns the canonical form of a freeform answer as a string.
// Invalid UTF-8 sequences become U+FFFD; Normalize rejects them instead.
func CanonicalText(text string) string {
	// Fold maps Cherokee to upper case and everything else to lower case,
	// Lower makes the result a fixed point
	folded := cases.Lower(language.Und).String(cases.Fold().String(text))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isTrimmed(r) {
			continue
		}
		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}

func normalizeFreeform(text string) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: answer is not valid UTF-8", ErrInvalidAnswerFormat)
	}
	canonical := CanonicalText(text)
	if canonical == "" {
		return nil, fmt.Errorf("%w: answer is empty", ErrInvalidAnswerFormat)
	}

	return []byte(canonical), nil
}

func normalizeStructured(levels []int, indices []uint16) ([]byte, error) {
	if len(indices) != len(levels) {
		return nil, fmt.Errorf("%w: expected %d selections, got %d", ErrInvalidAnswerFormat, len(levels), len(indices))
	}

	out := make([]byte, 0, len(indices)*IndexWidth)
	for i, idx := range indices {
		if int(idx) >= levels[i] {
			return nil, fmt.Errorf("%w: selection %d is %d, level has %d options", ErrInvalidAnswerFormat, i, idx, levels[i])
		}
		out = binary.BigEndian.AppendUint16(out, idx)
	}

	return out, nil
}
