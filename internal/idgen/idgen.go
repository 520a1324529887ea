// Package idgen provides short, URL-safe unique tokens backed by nanoid.
// They serve as cache-defeating query values on status fetches and as
// correlation IDs on payment creation requests.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix is prepended to every generated correlation ID.
var DefaultPrefix = "dl-"

// Alphabet defines the character set used for the random portion.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// Generate returns a new correlation ID using the default prefix.
func Generate() (string, error) {
	return GenerateWithPrefix(DefaultPrefix)
}

// GenerateWithPrefix returns a new correlation ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// CacheBuster returns a bare token suitable for a cache-defeating query
// parameter. It never fails: on the (practically impossible) random source
// error it falls back to the constant "0", which still defeats URL-keyed
// caches poisoned by earlier unparameterized requests.
func CacheBuster() string {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "0"
	}
	return id
}
