// Package tokenizer turns document lines into index keys. Words are split on
// ASCII whitespace only and punctuation is kept. A single-character word is
// upper-cased, anything longer is lower-cased.
package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Normalize returns the index key for a raw word.
func Normalize(word string) string {
	if utf8.RuneCountInString(word) == 1 {
		return strings.ToUpper(word)
	}
	return strings.ToLower(word)
}

// Fields splits line into words separated by runs of ASCII whitespace.
func Fields(line string) []string {
	return strings.FieldsFunc(line, isASCIISpace)
}

// Tokenize returns the normalized keys of every word in lines, in encounter
// order and with repeats.
func Tokenize(lines []string) []string {
	keys := make([]string, 0, len(lines)*8)
	for _, line := range lines {
		for _, word := range Fields(line) {
			keys = append(keys, Normalize(word))
		}
	}
	return keys
}

// Each calls fn with the normalized key of every word in lines without
// building an intermediate slice.
func Each(lines []string, fn func(key string)) {
	for _, line := range lines {
		for _, word := range Fields(line) {
			fn(Normalize(word))
		}
	}
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
