package netcalc

import (
	"errors"
	"strconv"
	"strings"
)

// Parse converts a single rule token into the interval it denotes. Accepted
// forms, tried in order, are ADDR/PREFIX, ADDR-ADDR and a bare ADDR. Host bits
// below a CIDR prefix are cleared rather than rejected.
func Parse(token string, family Family) (Interval, error) {
	if addrText, prefixText, ok := strings.Cut(token, "/"); ok {
		return parseCIDR(token, addrText, prefixText, family)
	}
	if startText, endText, ok := strings.Cut(token, "-"); ok {
		return parseRange(token, startText, endText, family)
	}

	addr, err := family.ParseAddress(token)
	if err != nil {
		return Interval{}, tokenError(err, token)
	}
	return Interval{Start: addr, End: addr}, nil
}

func parseCIDR(token, addrText, prefixText string, family Family) (Interval, error) {
	addr, err := family.ParseAddress(strings.TrimSpace(addrText))
	if err != nil {
		return Interval{}, tokenError(err, token)
	}

	prefix, ok := parsePrefixLength(strings.TrimSpace(prefixText), family.BitWidth())
	if !ok {
		return Interval{}, tokenError(ErrInvalidPrefixLength, token)
	}

	block := Block{Base: networkBase(addr, family.BitWidth(), prefix), Prefix: prefix}
	return Interval{Start: block.Base, End: block.Last(family.BitWidth())}, nil
}

func parseRange(token, startText, endText string, family Family) (Interval, error) {
	startText, endText = strings.TrimSpace(startText), strings.TrimSpace(endText)
	if startText == "" || endText == "" {
		return Interval{}, tokenError(ErrInvalidSyntax, token)
	}

	start, err := family.ParseAddress(startText)
	if err != nil {
		return Interval{}, tokenError(err, token)
	}
	end, err := family.ParseAddress(endText)
	if err != nil {
		return Interval{}, tokenError(err, token)
	}
	if start.Cmp(end) > 0 {
		return Interval{}, tokenError(ErrInvalidRange, token)
	}
	return Interval{Start: start, End: end}, nil
}

// parsePrefixLength accepts only plain decimal digits; signs and spaces are
// rejected even though strconv would take some of them.
func parsePrefixLength(text string, bitWidth int) (int, bool) {
	if text == "" {
		return 0, false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	prefix, err := strconv.Atoi(text)
	if err != nil || prefix > bitWidth {
		return 0, false
	}
	return prefix, true
}

type ruleOp int

const (
	opInclude ruleOp = iota
	opExclude
)

// rule is a parsed token and the operation it applies to the address set.
type rule struct {
	op       ruleOp
	interval Interval
}

// parseRule handles the token-level directives layered over Parse: a leading
// '#' marks a comment, a leading '+' or '-' selects include or exclude.
func parseRule(token string, family Family) (rule, bool, error) {
	if token == "" {
		return rule{}, false, tokenError(ErrInvalidSyntax, token)
	}
	if strings.HasPrefix(token, "#") {
		return rule{}, false, nil
	}

	op := opInclude
	body := token
	switch token[0] {
	case '+':
		body = strings.TrimSpace(token[1:])
	case '-':
		op = opExclude
		body = strings.TrimSpace(token[1:])
	}
	if body == "" {
		return rule{}, false, tokenError(ErrInvalidSyntax, token)
	}

	interval, err := Parse(body, family)
	if err != nil {
		var convErr *ConversionError
		if errors.As(err, &convErr) {
			convErr.Token = token
		}
		return rule{}, false, err
	}
	return rule{op: op, interval: interval}, true, nil
}
