package filtergraph

import (
	"strings"
	"unicode"
)

// Runes that break drawtext parsing or the filter script's own syntax.
// They are stripped outright rather than escaped: escaping quotes inside an
// already single-quoted text value produces nested-quote ambiguity that
// different ffmpeg builds resolve differently.
const strippedRunes = `'"` + "`" + `\:;[]%=`

// SanitizeCueText returns cue text safe to embed in a drawtext text='...'
// value. Control characters and quoting-hostile runes are removed and the
// result is trimmed; it may be empty, in which case the caller still emits
// the stage (an empty draw is harmless and keeps stage counts stable).
func SanitizeCueText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		if strings.ContainsRune(strippedRunes, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
