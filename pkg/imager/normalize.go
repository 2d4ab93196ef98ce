package imager

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// \s in RE2 is ASCII only; layer names also carry no-break and other Unicode spaces.
	separatorRe = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]|_|/|%20`)
	hyphenRunRe = regexp.MustCompile(`-{2,}`)
)

// Normalize turns a layer name into a filesystem-safe slug: whitespace,
// underscores, slashes and "%20" become hyphens, hyphen runs collapse to one,
// and the result is lowercased. Normalize(Normalize(s)) == Normalize(s).
func Normalize(name string) string {
	s := separatorRe.ReplaceAllString(name, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}

// NameList hands out unique names by linear scan of everything issued so far.
// It is used when an image has no stable content key to deduplicate on.
type NameList struct {
	names []string
}

// Unique returns name, or name followed by the first numeric suffix (1, 2, ...)
// not already issued, and records the result.
func (l *NameList) Unique(name string) string {
	candidate := name
	for n := 1; l.contains(candidate); n++ {
		candidate = name + strconv.Itoa(n)
	}
	l.names = append(l.names, candidate)
	return candidate
}

// Add records name as issued without checking for collisions.
func (l *NameList) Add(name string) {
	l.names = append(l.names, name)
}

func (l *NameList) contains(name string) bool {
	for _, n := range l.names {
		if n == name {
			return true
		}
	}
	return false
}
