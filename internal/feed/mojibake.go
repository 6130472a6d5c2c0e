package feed

import "strings"

// mojibakeFixes undoes UTF-8 star and quote glyphs that were decoded as
// Latin-1 somewhere upstream. Order matters: pairs are applied one after
// another, and the bare "â" catch-all must run last.
var mojibakeFixes = [][2]string{
	{"â˜…", "★"},
	{"â€™", "'"},
	{"â€œ", `"`},
	{"â€", `"`},
	{"ââââ", "★★★★"},
	{"âââ", "★★★"},
	{"ââ", "★★"},
	{"ââÂ½", "★★½"},
	{"âÂ½", "★½"},
	{"â½", "½"},
	{"Â½", "½"},
	{"â", "★"},
}

// FixMojibake repairs misdecoded star, half-star and quote glyphs and trims
// the result.
func FixMojibake(s string) string {
	for _, fix := range mojibakeFixes {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return strings.TrimSpace(s)
}
