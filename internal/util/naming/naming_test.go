package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	env := "trading-prod"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "Network",
			got:      Network(env),
			expected: "trading-prod-vpc",
		},
		{
			name:     "Subnet",
			got:      Subnet(env, 2),
			expected: "trading-prod-public-2",
		},
		{
			name:     "Gateway",
			got:      Gateway(env),
			expected: "trading-prod-igw",
		},
		{
			name:     "RouteTable",
			got:      RouteTable(env),
			expected: "trading-prod-public-rt",
		},
		{
			name:     "NetworkACL",
			got:      NetworkACL(env),
			expected: "trading-prod-public-acl",
		},
		{
			name:     "Cluster",
			got:      Cluster(env),
			expected: "trading-prod-eks",
		},
		{
			name:     "NodeGroup",
			got:      NodeGroup(env),
			expected: "trading-prod-workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}

func TestClusterName_PureFunctionOfEnvironment(t *testing.T) {
	// Re-running provisioning with the same environment name must target
	// the same cluster.
	if Cluster("staging") != Cluster("staging") {
		t.Error("cluster name must be deterministic")
	}
	if Cluster("staging") == Cluster("prod") {
		t.Error("distinct environments must map to distinct clusters")
	}
}
