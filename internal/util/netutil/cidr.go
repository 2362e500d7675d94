// Package netutil provides IPv4 CIDR arithmetic for subnet planning.
package netutil

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Contains reports whether child is fully inside parent. Both must be valid
// IPv4 CIDRs.
func Contains(parent, child string) (bool, error) {
	p, err := parse4(parent)
	if err != nil {
		return false, err
	}
	c, err := parse4(child)
	if err != nil {
		return false, err
	}
	if c.Bits() < p.Bits() {
		return false, nil
	}
	return p.Contains(c.Addr()), nil
}

// Overlap reports whether the two IPv4 CIDRs share any addresses.
func Overlap(a, b string) (bool, error) {
	pa, err := parse4(a)
	if err != nil {
		return false, err
	}
	pb, err := parse4(b)
	if err != nil {
		return false, err
	}
	return pa.Overlaps(pb), nil
}

// Subnets carves n sequential subnets of the given prefix length out of parent,
// starting at the parent's base address.
func Subnets(parent string, prefixLen, n int) ([]string, error) {
	p, err := parse4(parent)
	if err != nil {
		return nil, err
	}
	if prefixLen < p.Bits() || prefixLen > 30 {
		return nil, fmt.Errorf("prefix length /%d does not fit inside %s", prefixLen, parent)
	}

	available := 1 << (prefixLen - p.Bits())
	if n > available {
		return nil, fmt.Errorf("%s only holds %d /%d subnets, %d requested", parent, available, prefixLen, n)
	}

	base := binary.BigEndian.Uint32(p.Masked().Addr().AsSlice())
	step := uint32(1) << (32 - prefixLen)

	subnets := make([]string, 0, n)
	for i := range n {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], base+uint32(i)*step)
		subnets = append(subnets, netip.PrefixFrom(netip.AddrFrom4(buf), prefixLen).String())
	}
	return subnets, nil
}

func parse4(cidr string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("CIDR %q is not IPv4", cidr)
	}
	return p.Masked(), nil
}
