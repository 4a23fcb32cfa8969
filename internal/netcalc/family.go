package netcalc

import (
	"encoding/binary"
	"net/netip"
	"strings"

	"lukechampine.com/uint128"
)

// Family fixes the bit width and textual notation of addresses. It is chosen
// once per conversion and passed to every stage that needs it.
type Family interface {
	Name() string
	BitWidth() int
	ParseAddress(text string) (Address, error)
	FormatAddress(addr Address) string
}

var (
	IPv4 Family = ipv4Family{}
	IPv6 Family = ipv6Family{}
)

// LookupFamily resolves the family selector used by callers ("v4" or "v6").
func LookupFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "v4", "4", "ipv4":
		return IPv4, nil
	case "v6", "6", "ipv6":
		return IPv6, nil
	}
	return nil, &ConversionError{Err: ErrUnknownFamily, Token: name}
}

type ipv4Family struct{}

func (ipv4Family) Name() string  { return "v4" }
func (ipv4Family) BitWidth() int { return 32 }

func (ipv4Family) ParseAddress(text string) (Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return uint128.Zero, ErrInvalidSyntax
	}
	if !addr.Is4() {
		return uint128.Zero, ErrFamilyMismatch
	}
	raw := addr.As4()
	return uint128.From64(uint64(binary.BigEndian.Uint32(raw[:]))), nil
}

func (ipv4Family) FormatAddress(addr Address) string {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], uint32(addr.Lo))
	return netip.AddrFrom4(raw).String()
}

type ipv6Family struct{}

func (ipv6Family) Name() string  { return "v6" }
func (ipv6Family) BitWidth() int { return 128 }

func (ipv6Family) ParseAddress(text string) (Address, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return uint128.Zero, ErrInvalidSyntax
	}
	if addr.Is4() {
		return uint128.Zero, ErrFamilyMismatch
	}
	// Scoped addresses have no place in a routing rule.
	if addr.Zone() != "" {
		return uint128.Zero, ErrInvalidSyntax
	}
	raw := addr.As16()
	return uint128.FromBytesBE(raw[:]), nil
}

func (ipv6Family) FormatAddress(addr Address) string {
	var raw [16]byte
	addr.PutBytesBE(raw[:])
	return netip.AddrFrom16(raw).String()
}
