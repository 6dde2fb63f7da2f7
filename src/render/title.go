package render

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// FilePlaceholder is replaced by the input path in title templates.
const FilePlaceholder = "{file}"

// Title expands {file} in tmpl with path and bounds the result to max runes,
// shortening the directory part of path first.
func Title(tmpl, path string, max int) string {
	if max <= 0 {
		return ""
	}
	if !strings.Contains(tmpl, FilePlaceholder) {
		return clip(tmpl, max)
	}
	fixedPart := utf8.RuneCountInString(strings.ReplaceAll(tmpl, FilePlaceholder, ""))
	room := max - fixedPart
	if n := strings.Count(tmpl, FilePlaceholder); n > 1 {
		room /= n
	}
	short := truncatePath(path, room)
	return clip(strings.ReplaceAll(tmpl, FilePlaceholder, short), max)
}

// truncatePath shortens p to about n runes as dir/...base, keeping the base name whole when possible.
func truncatePath(p string, n int) string {
	if utf8.RuneCountInString(p) <= n {
		return p
	}
	base := filepath.Base(p)
	baseLen := utf8.RuneCountInString(base)
	if baseLen+4 >= n {
		return "..." + base
	}
	dir := []rune(filepath.Dir(p))
	left := n - baseLen - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return string(dir) + "/..." + base
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
