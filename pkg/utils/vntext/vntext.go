// Package vntext folds Vietnamese diacritics so staff names typed without
// accents still match the roster ("Nguyễn Văn A" == "Nguyen Van A").
package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder decomposes and strips combining marks. It covers both precomposed
// accents and the loose combining code points some exports emit.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// đ/Đ are plain letters, not accented ones, so the mark strip misses them.
// U+02C6 is the spacing circumflex some exports emit instead of the
// combining one; it is a modifier letter, not a mark, so it survives the
// strip too.
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "D", "ˆ", "")

// Fold removes Vietnamese diacritics from s.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return dReplacer.Replace(out)
}

// FoldLower is Fold plus lower-casing and trimming, the normal form used
// for name comparison.
func FoldLower(s string) string {
	return strings.ToLower(strings.TrimSpace(Fold(s)))
}
