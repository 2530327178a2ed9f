// Package k8s wraps k8s.io/client-go for deploying trader releases onto a
// provisioned cluster: namespace management and Server-Side Apply of the
// rendered objects, authenticated with short-lived cluster credentials.
package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"

	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/internal/release"
)

// FieldManager identifies this tool in Server-Side Apply field ownership.
const FieldManager = "flotilla"

// Client provides the cluster operations the deployment flow needs.
type Client interface {
	// EnsureNamespace creates the namespace if it does not exist yet.
	EnsureNamespace(ctx context.Context, name string) error

	// ApplyRelease applies every object of one release using
	// Server-Side Apply. Unchanged objects are no-ops on the server.
	ApplyRelease(ctx context.Context, rel *release.Release) error

	// DeleteRelease removes the release's objects, tolerating absence.
	DeleteRelease(ctx context.Context, rel *release.Release) error
}

// client implements Client using k8s.io/client-go.
type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
}

// NewFromAccess creates a Client from cluster access credentials. The
// token is short-lived; callers build a fresh client per invocation
// rather than caching one.
func NewFromAccess(access *aws.ClusterAccess) (Client, error) {
	restConfig := &rest.Config{
		Host:        access.Endpoint,
		BearerToken: access.Token,
		TLSClientConfig: rest.TLSClientConfig{
			CAData: access.CAData,
		},
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}
	mapper := restmapper.NewDiscoveryRESTMapper(groupResources)

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}, nil
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

// EnsureNamespace creates the namespace if missing.
func (c *client) EnsureNamespace(ctx context.Context, name string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{"app.kubernetes.io/managed-by": FieldManager},
		},
	}
	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}
