package domain

// DefaultMaxTokenLength bounds the number of real tokens in any encoded sentence.
const DefaultMaxTokenLength = 25

// KeyPrefix namespaces every key intentd writes to the KV store.
const KeyPrefix = "intentd:"

// Punctuation tokens never consume a row of an encoded sentence.
var Punctuation = map[string]struct{}{
	"?": {},
	"!": {},
	".": {},
	",": {},
}

// IsPunctuation reports whether token is one of the skipped punctuation tokens.
func IsPunctuation(token string) bool {
	_, ok := Punctuation[token]
	return ok
}
