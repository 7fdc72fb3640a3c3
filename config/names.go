package config

import "strings"

const badNameReplacement = "_bad_template_name_"

// CleanFileName makes output file name out of expanded name template: drops
// characters not allowed in file names, leading dots (no hidden or relative
// names) and trailing dots and spaces.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if invalidNameRune(sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), ". ")
	if len(out) == 0 {
		out = badNameReplacement
	}
	return out
}
