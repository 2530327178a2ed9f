package config

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/flotilla/internal/errdefs"
)

func TestPlanAddressSpace_ConcreteLayout(t *testing.T) {
	t.Parallel()
	plan, err := PlanAddressSpace("10.42.0.0/16", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"10.42.0.0/20", "10.42.16.0/20", "10.42.32.0/20"}, plan.Public)
	assert.Equal(t, "10.42.240.0/20", plan.Private)
}

func TestPlanAddressSpace_ReturnsCountPlusOneDisjointBlocks(t *testing.T) {
	t.Parallel()
	bases := []string{"10.42.0.0/16", "192.168.0.0/18", "172.16.0.0/14"}
	counts := []int{1, 3, 8, 14}

	for _, base := range bases {
		_, baseNet, err := net.ParseCIDR(base)
		require.NoError(t, err)

		for _, count := range counts {
			plan, err := PlanAddressSpace(base, count)
			require.NoError(t, err, "base=%s count=%d", base, count)

			all := append(append([]string{}, plan.Public...), plan.Private)
			require.Len(t, all, count+1)

			nets := make([]*net.IPNet, len(all))
			for i, cidr := range all {
				ip, n, err := net.ParseCIDR(cidr)
				require.NoError(t, err)
				assert.True(t, baseNet.Contains(ip), "%s not inside %s", cidr, base)
				nets[i] = n
			}

			for i := range nets {
				for j := i + 1; j < len(nets); j++ {
					overlap := nets[i].Contains(nets[j].IP) || nets[j].Contains(nets[i].IP)
					assert.False(t, overlap, "%s overlaps %s", all[i], all[j])
				}
			}
		}
	}
}

func TestPlanAddressSpace_Deterministic(t *testing.T) {
	t.Parallel()
	a, err := PlanAddressSpace("10.42.0.0/16", 5)
	require.NoError(t, err)
	b, err := PlanAddressSpace("10.42.0.0/16", 5)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPlanAddressSpace_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		base  string
		count int
	}{
		{name: "zero count", base: "10.42.0.0/16", count: 0},
		{name: "negative count", base: "10.42.0.0/16", count: -1},
		{name: "count collides with private index", base: "10.42.0.0/16", count: 15},
		{name: "invalid base", base: "bogus", count: 3},
		{name: "base too small for subdivision", base: "10.0.0.0/30", count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			plan, err := PlanAddressSpace(tt.base, tt.count)
			assert.Nil(t, plan, "nothing may be returned on error")
			require.Error(t, err)
			assert.True(t, errdefs.IsConfiguration(err), "expected ConfigurationError, got %v", err)
		})
	}
}
