package netcalc

import (
	"strconv"
	"strings"
)

// Format renders blocks as ADDR/PREFIX joined by sep. Host blocks keep their
// explicit /32 or /128 suffix.
func Format(blocks []Block, family Family, sep string) string {
	if len(blocks) == 0 {
		return ""
	}

	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(FormatBlock(block, family))
	}
	return b.String()
}

// FormatBlock renders a single block in the family's canonical notation.
func FormatBlock(block Block, family Family) string {
	return family.FormatAddress(block.Base) + "/" + strconv.Itoa(block.Prefix)
}
