package support

import "strings"

var separatorEscapes = strings.NewReplacer(`\r\n`, "\r\n", `\n`, "\n", `\t`, "\t", `\r`, "\r")

// TranslateSeparator turns the escape placeholders a UI may offer (a literal
// backslash followed by n, r or t) into the characters they stand for.
func TranslateSeparator(sep string) string {
	return separatorEscapes.Replace(sep)
}
