// Package nlp provides the English tokenizer and stemmer used by the encoder.
package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Words, clitics ('s, 't, 're) and single punctuation marks each form a token.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+|'[\p{L}]+|[^\p{L}\p{N}_\s']`)

// Normalizer implements domain.TextNormalizer with a regex tokenizer and Porter2 stemming.
type Normalizer struct{}

var _ domain.TextNormalizer = Normalizer{}

// New creates a Normalizer.
func New() Normalizer { return Normalizer{} }

// Tokenize splits a sentence into word and punctuation tokens, preserving order.
func (Normalizer) Tokenize(sentence string) []string {
	return tokenRe.FindAllString(sentence, -1)
}

// Stem lowercases and stems a word token. Numbers and punctuation pass through lowercased.
func (Normalizer) Stem(token string) string {
	lower := strings.ToLower(token)
	r, _ := utf8.DecodeRuneInString(lower)
	if !unicode.IsLetter(r) {
		return lower
	}
	return english.Stem(lower, true)
}
