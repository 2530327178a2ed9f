package handlers

import (
	"context"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/k8s"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/release"
)

func intP(v int) *int           { return &v }
func floatP(v float64) *float64 { return &v }

func testParams() config.Params {
	return config.Params{
		EMAPeriods:          intP(20),
		BuyFraction:         floatP(0.5),
		SellFraction:        floatP(0.5),
		StopLoss:            floatP(0.975),
		CooldownSeconds:     intP(300),
		BuyTargetSeconds:    intP(60),
		SellTargetSeconds:   intP(60),
		RMMISeconds:         intP(900),
		ConcentrationLimit:  floatP(0.25),
		ProbabilisticBuying: intP(0),
	}
}

func testTrader(name string) config.TraderConfig {
	return config.TraderConfig{
		Name:              name,
		Image:             config.ImageConfig{Repository: "registry.example.com/trader"},
		Params:            testParams(),
		CredentialsSecret: name + "-credentials",
		MetricsSecret:     "metrics-shared",
	}
}

func testConfig(traders ...config.TraderConfig) *config.Config {
	cfg := &config.Config{
		Environment: "trading-test",
		Region:      "us-east-1",
		Cluster: config.ClusterConfig{
			RoleARN: "arn:aws:iam::123456789012:role/eks-cluster",
			NodeGroup: config.NodeGroupConfig{
				RoleARN: "arn:aws:iam::123456789012:role/eks-nodes",
			},
		},
		Traders: traders,
	}
	cfg.ApplyDefaults()
	return cfg
}

// stubConfig points loadConfigFile at a fixed configuration and returns
// a restore function.
func stubConfig(cfg *config.Config) func() {
	orig := loadConfigFile
	loadConfigFile = func(_ string) (*config.Config, error) { return cfg, nil }
	return func() { loadConfigFile = orig }
}

// stubCloud points newCloudClient at a mock and returns a restore function.
func stubCloud(mock *aws.MockClient) func() {
	orig := newCloudClient
	newCloudClient = func(_ context.Context, _ string) (aws.CloudManager, error) { return mock, nil }
	return func() { newCloudClient = orig }
}

// trackingMock wraps the platform mock and records which provisioning
// phases ran.
type trackingMock struct {
	*aws.MockClient
	networkEnsured bool
	clusterEnsured bool
}

func newTrackingMock() *trackingMock {
	tm := &trackingMock{MockClient: &aws.MockClient{}}
	tm.MockClient.EnsureVPCFunc = func(_ context.Context, _, _ string, _ map[string]string) (string, error) {
		tm.networkEnsured = true
		return "vpc-mock", nil
	}
	tm.MockClient.EnsureClusterFunc = func(_ context.Context, _ aws.ClusterCreateOpts) error {
		tm.clusterEnsured = true
		return nil
	}
	return tm
}

// clusterClientMock records release operations for assertions.
type clusterClientMock struct {
	namespaces []string
	applied    []string
	deleted    []string
	applyErr   func(instance string) error
}

var _ k8s.Client = (*clusterClientMock)(nil)

func (m *clusterClientMock) EnsureNamespace(_ context.Context, name string) error {
	m.namespaces = append(m.namespaces, name)
	return nil
}

func (m *clusterClientMock) ApplyRelease(_ context.Context, rel *release.Release) error {
	if m.applyErr != nil {
		if err := m.applyErr(rel.Instance); err != nil {
			return err
		}
	}
	m.applied = append(m.applied, rel.Instance)
	return nil
}

func (m *clusterClientMock) DeleteRelease(_ context.Context, rel *release.Release) error {
	m.deleted = append(m.deleted, rel.Instance)
	return nil
}

// stubClusterClient points newClusterClient at the mock and returns a
// restore function.
func stubClusterClient(mock *clusterClientMock) func() {
	orig := newClusterClient
	newClusterClient = func(_ *aws.ClusterAccess) (k8s.Client, error) { return mock, nil }
	return func() { newClusterClient = orig }
}
