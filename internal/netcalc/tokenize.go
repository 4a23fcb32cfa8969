package netcalc

import "strings"

// DefaultSeparator is used when a caller passes an empty separator.
const DefaultSeparator = "\n"

// Tokenize splits input on every literal occurrence of sep, trims each piece
// and drops the blank ones. Order is preserved.
func Tokenize(input, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}

	pieces := strings.Split(input, sep)
	tokens := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		tokens = append(tokens, piece)
	}
	return tokens
}
