// Package textx holds the tokenizer shared by the word index and the
// word-count statistics. Both must agree on what a "word" is.
package textx

import (
	"strings"
	"unicode"
)

// WordsFromText splits s into lowercase words. A word boundary is any run of
// non-alphanumeric characters. The returned slice preserves order and
// repetitions.
func WordsFromText(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// WordCount returns the number of words in s as defined by WordsFromText.
func WordCount(s string) int {
	return len(WordsFromText(s))
}
