// Package labels generates alphabetic panel labels for subfigure grids.
//
// Labels follow a bijective base-26 numbering over the lowercase letters:
// index 0 is "a", index 25 is "z", index 26 is "aa", index 701 is "zz",
// index 702 is "aaa". There is no digit for zero, so the sequence never
// repeats and never skips. Panel labels are conventionally wrapped in
// parentheses: "(a)", "(b)", ...
package labels

import "strings"

// At returns the bijective base-26 numeral for the zero-based index i.
// Negative indices return the empty string.
func At(i int) string {
	if i < 0 {
		return ""
	}
	// 16 letters is enough for any int64 index.
	var b [16]byte
	pos := len(b)
	n := i + 1
	for n > 0 {
		n--
		pos--
		b[pos] = byte('a' + n%26)
		n /= 26
	}
	return string(b[pos:])
}

// Wrap returns the label for index i wrapped in parentheses, e.g. "(a)".
func Wrap(i int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(At(i))
	sb.WriteByte(')')
	return sb.String()
}

// Sequence returns the first n parenthesized labels: "(a)", "(b)", ...
// It returns nil when n <= 0.
func Sequence(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = Wrap(i)
	}
	return out
}
