package asset

import (
	"strconv"
	"strings"
	"unicode"
)

// SanitizeName maps a node name to the form the renderer's scene graph
// uses: whitespace becomes '_' and the characters []./: are removed.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case strings.ContainsRune("[].:/", r):
			return -1
		}
		return r
	}, name)
}

// uniqueNames hands out sanitized names, suffixing repeats with _1, _2...
type uniqueNames map[string]int

func (u uniqueNames) next(name string) string {
	name = SanitizeName(name)
	n, ok := u[name]
	if !ok {
		u[name] = 0
		return name
	}
	n++
	u[name] = n
	return name + "_" + strconv.Itoa(n)
}
