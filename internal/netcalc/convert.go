// Package netcalc turns lists of addresses, CIDR blocks and address ranges
// into the minimal sorted set of CIDR blocks covering the same addresses.
//
// Every call is independent: nothing is cached or shared between calls, so
// the functions are safe for concurrent use.
package netcalc

import (
	"errors"

	"lukechampine.com/uint128"
)

// Convert parses input, aggregates it and formats the result. family is "v4"
// or "v6"; sep is used verbatim both to split input and to join the output.
// The first invalid token aborts the conversion.
func Convert(family, sep, input string) (string, error) {
	fam, err := LookupFamily(family)
	if err != nil {
		return "", err
	}
	if sep == "" {
		sep = DefaultSeparator
	}

	blocks, err := ConvertBlocks(fam, Tokenize(input, sep))
	if err != nil {
		return "", err
	}
	return Format(blocks, fam, sep), nil
}

// ConvertBlocks parses already tokenized rules and returns the aggregated
// blocks, failing on the first invalid token.
func ConvertBlocks(family Family, tokens []string) ([]Block, error) {
	var include, exclude []Interval
	for i, token := range tokens {
		r, ok, err := parseRule(token, family)
		if err != nil {
			return nil, withPosition(err, i+1)
		}
		if !ok {
			continue
		}
		if r.op == opExclude {
			exclude = append(exclude, r.interval)
		} else {
			include = append(include, r.interval)
		}
	}

	merged := subtractIntervals(mergeIntervals(include), mergeIntervals(exclude))
	return decompose(merged, family.BitWidth()), nil
}

// Validate checks every token and reports all failures at once, joined with
// errors.Join. It returns nil when Convert would succeed.
func Validate(family, sep, input string) error {
	fam, err := LookupFamily(family)
	if err != nil {
		return err
	}

	var errs []error
	for i, token := range Tokenize(input, sep) {
		if _, _, err := parseRule(token, fam); err != nil {
			errs = append(errs, withPosition(err, i+1))
		}
	}
	return errors.Join(errs...)
}

// Summary describes the outcome of a conversion without rendering it.
type Summary struct {
	Family    string `json:"family"`
	Tokens    int    `json:"tokens"`
	Blocks    int    `json:"blocks"`
	Addresses string `json:"addresses"`
}

// Summarize converts input and counts what the result covers. Addresses is a
// decimal string because a full IPv6 space does not fit in 64 bits.
func Summarize(family, sep, input string) (Summary, error) {
	fam, err := LookupFamily(family)
	if err != nil {
		return Summary{}, err
	}

	tokens := Tokenize(input, sep)
	blocks, err := ConvertBlocks(fam, tokens)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Family:    fam.Name(),
		Tokens:    len(tokens),
		Blocks:    len(blocks),
		Addresses: countAddresses(blocks, fam.BitWidth()),
	}, nil
}

// countAddresses sums block sizes. Blocks are disjoint, so the only value that
// overflows 128 bits is the single /0 block of the whole IPv6 space.
func countAddresses(blocks []Block, bitWidth int) string {
	total := uint128.Zero
	for _, block := range blocks {
		hostBits := bitWidth - block.Prefix
		if hostBits == 128 {
			return "340282366920938463463374607431768211456"
		}
		total = total.Add(uint128.From64(1).Lsh(uint(hostBits)))
	}
	return total.String()
}

func withPosition(err error, position int) error {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		convErr.Position = position
		return convErr
	}
	return &ConversionError{Err: err, Position: position}
}
