// Package release expands trader instance configurations into the
// Kubernetes objects that run them. Rendering is a pure function of its
// inputs: it never reads secret contents and never talks to a live cluster.
package release

import (
	"bytes"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/util/ptr"
)

// HashAnnotation carries the content hash of the environment-parameter
// block on every rendered workload.
const HashAnnotation = "flotilla.dev/params-hash"

// Target identifies the shared deployable unit and where releases land.
type Target struct {
	// ChartName is the chart identity feeding name and label derivation.
	ChartName string
	// ChartVersion doubles as the default image tag.
	ChartVersion string
	// Namespace is the cluster namespace releases are applied to.
	Namespace string
}

// Release is the fully expanded set of orchestration objects for one
// instance. It is regenerated on every render pass and never persisted.
type Release struct {
	Instance  string
	Name      string
	Namespace string
	Labels    map[string]string

	ServiceAccount *corev1.ServiceAccount
	Deployment     *appsv1.Deployment
}

// Render expands one trader into its release. It is deterministic: the
// same target and trader always produce byte-identical output, including
// the parameter hash annotation. Any failure is scoped to this instance
// and reported before any object is built.
func Render(target Target, trader config.TraderConfig) (*Release, error) {
	envVars, err := EnvVars(trader.Params)
	if err != nil {
		return nil, errdefs.Render(trader.Name, err)
	}

	resources, err := resourceRequirements(trader.Resources)
	if err != nil {
		return nil, errdefs.Render(trader.Name, err)
	}

	releaseName := ReleaseName(trader.Name)
	name := Fullname(target.ChartName, releaseName, trader.OverrideName)
	labels := Labels(target.ChartName, releaseName)
	selector := SelectorLabels(target.ChartName, releaseName)
	annotations := map[string]string{HashAnnotation: ParamsHash(envVars)}

	tag := trader.Image.Tag
	if tag == "" {
		tag = target.ChartVersion
	}
	image := trader.Image.Repository + ":" + tag

	serviceAccount := &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: target.Namespace,
			Labels:    labels,
		},
	}

	deployment := &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   target.Namespace,
			Labels:      labels,
			Annotations: annotations,
		},
		Spec: appsv1.DeploymentSpec{
			// One instance name maps to exactly one running process.
			Replicas: ptr.Int32(1),
			Strategy: appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType},
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      labels,
					Annotations: annotations,
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: name,
					Containers: []corev1.Container{
						{
							Name:  target.ChartName,
							Image: image,
							Env:   envVars,
							// Secrets are bound by reference only; their
							// contents never pass through the renderer.
							EnvFrom: []corev1.EnvFromSource{
								{SecretRef: &corev1.SecretEnvSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: trader.CredentialsSecret},
								}},
								{SecretRef: &corev1.SecretEnvSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: trader.MetricsSecret},
								}},
							},
							Resources: resources,
						},
					},
				},
			},
		},
	}

	return &Release{
		Instance:       trader.Name,
		Name:           name,
		Namespace:      target.Namespace,
		Labels:         labels,
		ServiceAccount: serviceAccount,
		Deployment:     deployment,
	}, nil
}

// resourceRequirements parses the configured quantities. Empty values are
// simply omitted.
func resourceRequirements(rc config.ResourceConfig) (corev1.ResourceRequirements, error) {
	var reqs corev1.ResourceRequirements

	parse := func(value string, name corev1.ResourceName, list *corev1.ResourceList) error {
		if value == "" {
			return nil
		}
		quantity, err := resource.ParseQuantity(value)
		if err != nil {
			return errdefs.Configuration("invalid %s quantity %q: %v", name, value, err)
		}
		if *list == nil {
			*list = corev1.ResourceList{}
		}
		(*list)[name] = quantity
		return nil
	}

	if err := parse(rc.CPURequest, corev1.ResourceCPU, &reqs.Requests); err != nil {
		return reqs, err
	}
	if err := parse(rc.MemoryRequest, corev1.ResourceMemory, &reqs.Requests); err != nil {
		return reqs, err
	}
	if err := parse(rc.CPULimit, corev1.ResourceCPU, &reqs.Limits); err != nil {
		return reqs, err
	}
	if err := parse(rc.MemoryLimit, corev1.ResourceMemory, &reqs.Limits); err != nil {
		return reqs, err
	}
	return reqs, nil
}

// Objects returns the release's objects in apply order.
func (r *Release) Objects() []runtime.Object {
	return []runtime.Object{r.ServiceAccount, r.Deployment}
}

// Manifests renders the release as multi-document YAML for inspection
// without a cluster.
func (r *Release) Manifests() ([]byte, error) {
	var buf bytes.Buffer
	for _, obj := range r.Objects() {
		data, err := sigsyaml.Marshal(obj)
		if err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
