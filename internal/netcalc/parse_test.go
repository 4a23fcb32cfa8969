package netcalc

import (
	"errors"
	"testing"

	"lukechampine.com/uint128"
)

func v4(t *testing.T, text string) Address {
	t.Helper()
	addr, err := IPv4.ParseAddress(text)
	if err != nil {
		t.Fatalf("ParseAddress(%q) returned error: %v", text, err)
	}
	return addr
}

func v6(t *testing.T, text string) Address {
	t.Helper()
	addr, err := IPv6.ParseAddress(text)
	if err != nil {
		t.Fatalf("ParseAddress(%q) returned error: %v", text, err)
	}
	return addr
}

func TestParseIPv4(t *testing.T) {
	cases := []struct {
		token string
		start string
		end   string
	}{
		{"10.0.0.0/8", "10.0.0.0", "10.255.255.255"},
		{"10.1.2.3/8", "10.0.0.0", "10.255.255.255"},
		{"192.168.1.5", "192.168.1.5", "192.168.1.5"},
		{"192.168.1.5-192.168.1.9", "192.168.1.5", "192.168.1.9"},
		{"192.168.1.5 - 192.168.1.9", "192.168.1.5", "192.168.1.9"},
		{"1.2.3.4-1.2.3.4", "1.2.3.4", "1.2.3.4"},
		{"0.0.0.0/0", "0.0.0.0", "255.255.255.255"},
		{"255.255.255.255/32", "255.255.255.255", "255.255.255.255"},
	}

	for _, tc := range cases {
		got, err := Parse(tc.token, IPv4)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.token, err)
			continue
		}
		want := Interval{Start: v4(t, tc.start), End: v4(t, tc.end)}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", tc.token, got, want)
		}
	}
}

func TestParseIPv6(t *testing.T) {
	got, err := Parse("2001:db8::1/32", IPv6)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := Interval{Start: v6(t, "2001:db8::"), End: v6(t, "2001:db8:ffff:ffff:ffff:ffff:ffff:ffff")}
	if got != want {
		t.Fatalf("Parse = %v, want %v", got, want)
	}

	got, err = Parse("::/0", IPv6)
	if err != nil {
		t.Fatalf("Parse(::/0) returned error: %v", err)
	}
	if !got.Start.IsZero() || !got.End.Equals(uint128.Max) {
		t.Fatalf("Parse(::/0) = %v, want the whole address space", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		token  string
		family Family
		want   error
	}{
		{"not-an-address", IPv4, ErrInvalidSyntax},
		{"10.0.0", IPv4, ErrInvalidSyntax},
		{"10.0.0.1-", IPv4, ErrInvalidSyntax},
		{"-", IPv4, ErrInvalidSyntax},
		{"2001:db8::1", IPv4, ErrFamilyMismatch},
		{"2001:db8::/32", IPv4, ErrFamilyMismatch},
		{"10.0.0.1-::1", IPv4, ErrFamilyMismatch},
		{"10.0.0.0/8", IPv6, ErrFamilyMismatch},
		{"10.0.0.0/33", IPv4, ErrInvalidPrefixLength},
		{"10.0.0.0/", IPv4, ErrInvalidPrefixLength},
		{"10.0.0.0/x", IPv4, ErrInvalidPrefixLength},
		{"10.0.0.0/+8", IPv4, ErrInvalidPrefixLength},
		{"10.0.0.0/8/8", IPv4, ErrInvalidPrefixLength},
		{"::/129", IPv6, ErrInvalidPrefixLength},
		{"10.0.0.9-10.0.0.1", IPv4, ErrInvalidRange},
		{"::2-::1", IPv6, ErrInvalidRange},
	}

	for _, tc := range cases {
		_, err := Parse(tc.token, tc.family)
		if !errors.Is(err, tc.want) {
			t.Errorf("Parse(%q, %s) returned %v, want %v", tc.token, tc.family.Name(), err, tc.want)
			continue
		}
		var convErr *ConversionError
		if !errors.As(err, &convErr) || convErr.Token != tc.token {
			t.Errorf("Parse(%q) error does not carry the token: %v", tc.token, err)
		}
	}
}

func TestParseRule(t *testing.T) {
	if _, ok, err := parseRule("# office ranges", IPv4); ok || err != nil {
		t.Fatalf("parseRule(comment) = %v, %v, want skipped", ok, err)
	}

	r, ok, err := parseRule("-10.0.0.0/9", IPv4)
	if err != nil || !ok {
		t.Fatalf("parseRule(-10.0.0.0/9) = %v, %v", ok, err)
	}
	if r.op != opExclude {
		t.Fatalf("parseRule(-10.0.0.0/9) op = %v, want exclude", r.op)
	}

	r, ok, err = parseRule("+ 10.0.0.1", IPv4)
	if err != nil || !ok || r.op != opInclude {
		t.Fatalf("parseRule(+ 10.0.0.1) = %+v, %v, %v", r, ok, err)
	}

	_, _, err = parseRule("-bogus", IPv4)
	var convErr *ConversionError
	if !errors.As(err, &convErr) || convErr.Token != "-bogus" {
		t.Fatalf("parseRule(-bogus) returned %v, want error naming the full token", err)
	}
}
