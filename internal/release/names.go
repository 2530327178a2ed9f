package release

import "strings"

const (
	// maxNameLength is the Kubernetes object name limit every derived
	// name is truncated to.
	maxNameLength = 63

	separator = "-"
)

// ReleaseName maps an instance name from the registry to its release
// identity. Registry names allow underscores; object names do not.
func ReleaseName(instance string) string {
	return strings.ReplaceAll(instance, "_", separator)
}

// Fullname derives the resource name for one release. The override name
// wins outright; otherwise the release identity is used alone when it
// already contains the chart name, and prefixed to it when it does not.
// The result is truncated to the name length limit with any trailing
// separator stripped, and every object of the release (workload, service
// account, label values) uses it verbatim.
func Fullname(chart, release, override string) string {
	var name string
	switch {
	case override != "":
		name = override
	case strings.Contains(release, chart):
		name = release
	default:
		name = release + separator + chart
	}
	return truncate(name)
}

// truncate enforces the name length limit and strips trailing separators
// left behind by the cut.
func truncate(name string) string {
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return strings.TrimRight(name, separator)
}

// Labels returns the full label set stamped on every object of one
// release: the selector pair plus the management marker. The map is built
// once per render and reused verbatim so that selection by label is stable.
func Labels(chart, release string) map[string]string {
	labels := SelectorLabels(chart, release)
	labels["app.kubernetes.io/managed-by"] = "flotilla"
	return labels
}

// SelectorLabels returns the fixed selector pair identifying one release.
// Workload selectors are immutable in Kubernetes, so this pair must never
// grow new keys.
func SelectorLabels(chart, release string) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":     chart,
		"app.kubernetes.io/instance": release,
	}
}
