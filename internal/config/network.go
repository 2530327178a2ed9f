package config

import (
	"net"

	"github.com/imamik/flotilla/internal/errdefs"
)

const (
	// subnetNewBits is the fixed subdivision factor: every subnet is the
	// base block's prefix length plus this many bits (a /16 yields /20s).
	subnetNewBits = 4

	// privateSubnetIndex is the reserved index for the private address
	// pool. It is the last index of the subdivision, so public subnets
	// counting up from zero can never collide with it.
	privateSubnetIndex = (1 << subnetNewBits) - 1
)

// AddressPlan holds the derived subnet layout for one environment.
// Public subnets are indexed; the index <-> CIDR mapping is stable because
// each CIDR is a pure function of (base block, index).
type AddressPlan struct {
	// Base is the environment's top-level address block.
	Base string
	// Public holds one CIDR per public subnet, ordered by index.
	Public []string
	// Private is the reserved private address pool.
	Private string
}

// PlanAddressSpace derives count public subnet CIDRs plus one private pool
// from the base block using the fixed bit-shift subdivision scheme. All
// returned CIDRs are disjoint because they are selected by distinct indices
// of the same subdivision.
//
// A base block too small to subdivide, or a count that would run into the
// reserved private index, is a configuration error and nothing is returned.
func PlanAddressSpace(base string, count int) (*AddressPlan, error) {
	if count < 1 {
		return nil, errdefs.Configuration("subnet count must be at least 1, got %d", count)
	}
	if count >= privateSubnetIndex {
		return nil, errdefs.Configuration(
			"subnet count %d exceeds the %d public indices available under the fixed /%d subdivision",
			count, privateSubnetIndex, subnetNewBits)
	}
	if _, _, err := net.ParseCIDR(base); err != nil {
		return nil, errdefs.Configuration("invalid base CIDR %q: %v", base, err)
	}

	plan := &AddressPlan{Base: base, Public: make([]string, 0, count)}

	for i := 0; i < count; i++ {
		cidr, err := CIDRSubnet(base, subnetNewBits, i)
		if err != nil {
			return nil, errdefs.Configuration("deriving public subnet %d from %s: %v", i, base, err)
		}
		plan.Public = append(plan.Public, cidr)
	}

	private, err := CIDRSubnet(base, subnetNewBits, privateSubnetIndex)
	if err != nil {
		return nil, errdefs.Configuration("deriving private pool from %s: %v", base, err)
	}
	plan.Private = private

	return plan, nil
}
