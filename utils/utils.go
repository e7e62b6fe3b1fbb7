package utils

import (
	rndm "math/rand"
)

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// NewID returns a document id with a one-letter type prefix,
// e.g. "o" for orders, "p" for products.
func NewID(prefix string) string {
	return prefix + GenerateRandomString(14)
}

// ConversationID pairs two user ids deterministically: both ids
// sorted, joined with an underscore. Either participant computes
// the same id.
func ConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

func ContainsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
