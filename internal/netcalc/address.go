package netcalc

import "lukechampine.com/uint128"

// Address is a host or network address in numeric form. IPv4 addresses occupy
// the low 32 bits.
type Address = uint128.Uint128

// Interval is an inclusive address range. Start <= End always holds for values
// produced by Parse.
type Interval struct {
	Start Address
	End   Address
}

// Block is an aligned CIDR block: every host bit of Base is zero.
type Block struct {
	Base   Address
	Prefix int
}

// Last returns the highest address covered by the block.
func (b Block) Last(bitWidth int) Address {
	return b.Base.Or(hostMask(bitWidth, b.Prefix))
}

// maxAddress returns the highest address representable in bitWidth bits.
func maxAddress(bitWidth int) Address {
	if bitWidth <= 0 {
		return uint128.Zero
	}
	return uint128.Max.Rsh(uint(128 - bitWidth))
}

// hostMask returns the low (bitWidth - prefix) bits set.
func hostMask(bitWidth, prefix int) Address {
	return maxAddress(bitWidth - prefix)
}

// networkBase clears the host bits of addr for the given prefix.
func networkBase(addr Address, bitWidth, prefix int) Address {
	return addr.And(hostMask(bitWidth, prefix).Xor(uint128.Max))
}
