package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/release"
)

// Note: Server-Side Apply against a fake needs a real cluster or more
// sophisticated fakes. These tests focus on namespace handling, delete
// tolerance, and per-instance error scoping.

func testRelease(t *testing.T) *release.Release {
	t.Helper()
	ema := 20
	frac := 0.5
	stop := 0.975
	zero := 0
	limit := 0.25

	rel, err := release.Render(
		release.Target{ChartName: "trader", ChartVersion: "1.0.0", Namespace: "traders"},
		config.TraderConfig{
			Name:              "red_trader",
			Image:             config.ImageConfig{Repository: "registry.example.com/trader"},
			CredentialsSecret: "red-credentials",
			MetricsSecret:     "metrics-shared",
			Params: config.Params{
				EMAPeriods:          &ema,
				BuyFraction:         &frac,
				SellFraction:        &frac,
				StopLoss:            &stop,
				CooldownSeconds:     &zero,
				BuyTargetSeconds:    &zero,
				SellTargetSeconds:   &zero,
				RMMISeconds:         &zero,
				ConcentrationLimit:  &limit,
				ProbabilisticBuying: &zero,
			},
		},
	)
	require.NoError(t, err)
	return rel
}

func setupTestClient(t *testing.T, mapper meta.RESTMapper) Client {
	t.Helper()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset()
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	_ = appsv1.AddToScheme(scheme)
	dynamicClient := dynamicfake.NewSimpleDynamicClient(scheme)

	return NewFromClients(clientset, dynamicClient, mapper)
}

func testMapper() meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name: "",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "v1", Version: "v1"},
				},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "serviceaccounts", Namespaced: true, Kind: "ServiceAccount"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
				},
			},
		},
		{
			Group: metav1.APIGroup{
				Name: "apps",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "apps/v1", Version: "v1"},
				},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "deployments", Namespaced: true, Kind: "Deployment"},
				},
			},
		},
	}
	return restmapper.NewDiscoveryRESTMapper(resources)
}

func TestEnsureNamespace_CreatesOnce(t *testing.T) {
	t.Parallel()
	client := setupTestClient(t, testMapper())

	require.NoError(t, client.EnsureNamespace(context.Background(), "traders"))
	// Second call converges on the existing namespace.
	require.NoError(t, client.EnsureNamespace(context.Background(), "traders"))
}

func TestDeleteRelease_ToleratesAbsentObjects(t *testing.T) {
	t.Parallel()
	client := setupTestClient(t, testMapper())

	err := client.DeleteRelease(context.Background(), testRelease(t))
	require.NoError(t, err)
}

func TestApplyRelease_UnmappedKindIsScopedToInstance(t *testing.T) {
	t.Parallel()
	// A mapper with no registered kinds forces the mapping failure path.
	client := setupTestClient(t, restmapper.NewDiscoveryRESTMapper(nil))

	err := client.ApplyRelease(context.Background(), testRelease(t))
	require.Error(t, err)

	var re *errdefs.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "red_trader", re.Instance)
}
