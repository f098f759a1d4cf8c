package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/capstudio/capstudio/internal/platform"
)

// maxSuffixAttempts bounds numeric disambiguation before falling back to a
// GUID suffix. The first-seen map makes exhaustion effectively impossible
// through normal use; the cap guards against pathological scopes.
const maxSuffixAttempts = 1000

// Scope tracks identifiers claimed within one emission scope (a file or a
// module) and disambiguates collisions deterministically by first-seen order:
// Name, Name2, Name3, ...
//
// A Scope is owned by a single assembler goroutine; it is not safe for
// concurrent use.
type Scope struct {
	claimed map[string]bool
}

// NewScope creates an empty identifier scope.
func NewScope() *Scope {
	return &Scope{claimed: make(map[string]bool)}
}

// Claim sanitizes raw into a legal identifier under the casing rule and
// reserves it in the scope. On collision it appends 2, 3, ... in first-seen
// order; if numeric disambiguation is exhausted it falls back to a
// GUID-suffixed identifier and reports guidFallback=true so the caller can
// attach a warning.
func (s *Scope) Claim(raw string, casing platform.Casing) (ident string, guidFallback bool) {
	base := Sanitize(raw, casing)
	if !s.claimed[base] {
		s.claimed[base] = true
		return base, false
	}
	for n := 2; n < maxSuffixAttempts; n++ {
		candidate := base + strconv.Itoa(n)
		if !s.claimed[candidate] {
			s.claimed[candidate] = true
			return candidate, false
		}
	}
	guid := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	candidate := base + "_" + guid
	s.claimed[candidate] = true
	return candidate, true
}

// Sanitize converts an arbitrary display name into a syntactically legal
// identifier: non-identifier runes split words, the casing rule joins them,
// and a leading digit is guarded with an underscore.
func Sanitize(raw string, casing platform.Casing) string {
	words := splitWords(raw)
	if len(words) == 0 {
		words = []string{"component"}
	}

	var ident string
	switch casing {
	case platform.PascalCase:
		var b strings.Builder
		for _, w := range words {
			b.WriteString(capitalize(w))
		}
		ident = b.String()
	case platform.CamelCase:
		var b strings.Builder
		for i, w := range words {
			if i == 0 {
				b.WriteString(strings.ToLower(w))
			} else {
				b.WriteString(capitalize(w))
			}
		}
		ident = b.String()
	case platform.SnakeCase:
		lower := make([]string, len(words))
		for i, w := range words {
			lower[i] = strings.ToLower(w)
		}
		ident = strings.Join(lower, "_")
	}

	if ident == "" {
		ident = "component"
	}
	if unicode.IsDigit(rune(ident[0])) {
		ident = "_" + ident
	}
	return ident
}

// splitWords breaks raw on non-alphanumeric runes and lower-to-upper case
// boundaries, dropping everything that cannot appear in an identifier.
func splitWords(raw string) []string {
	var words []string
	var cur strings.Builder
	var prev rune
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				flush()
			}
			cur.WriteRune(r)
		default:
			flush()
		}
		prev = r
	}
	flush()
	return words
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
