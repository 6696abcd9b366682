// Package naming produces the non-guessable storage identifiers files
// are published under. Names never derive from the original filename
// or the content, so they leak nothing and cannot be guessed.
package naming

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// entropyBytes is 128 bits, rendered as 32 hex characters.
const entropyBytes = 16

// Generator creates storage names of the form
// <prefix><32 hex chars>[.<ext>]. Prefix is an optional deployment
// namespace and may be empty.
type Generator struct {
	Prefix string
}

// Generate returns a fresh random name. ext is appended lower-cased
// when non-empty; a leading dot in ext is tolerated.
func (g Generator) Generate(ext string) string {
	buf := make([]byte, entropyBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("naming: entropy source unavailable: " + err.Error())
	}

	var b strings.Builder
	b.WriteString(g.Prefix)
	b.WriteString(hex.EncodeToString(buf))
	if ext != "" {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}
