package k8s

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"

	"github.com/imamik/flotilla/internal/errdefs"
	"github.com/imamik/flotilla/internal/release"
)

// ApplyRelease applies the release's objects in order using Server-Side
// Apply. Any failure is scoped to the release's instance so a batch
// deploy can report it without aborting the other instances.
func (c *client) ApplyRelease(ctx context.Context, rel *release.Release) error {
	for _, obj := range rel.Objects() {
		u, err := toUnstructured(obj)
		if err != nil {
			return errdefs.Render(rel.Instance, err)
		}
		if err := c.applyObject(ctx, u); err != nil {
			return errdefs.Render(rel.Instance,
				fmt.Errorf("failed to apply %s %s/%s: %w", u.GetKind(), u.GetNamespace(), u.GetName(), err))
		}
	}
	return nil
}

// DeleteRelease removes the release's objects in reverse apply order.
// Objects that are already gone are not an error.
func (c *client) DeleteRelease(ctx context.Context, rel *release.Release) error {
	objects := rel.Objects()
	for i := len(objects) - 1; i >= 0; i-- {
		u, err := toUnstructured(objects[i])
		if err != nil {
			return errdefs.Render(rel.Instance, err)
		}
		if err := c.deleteObject(ctx, u); err != nil {
			return errdefs.Render(rel.Instance,
				fmt.Errorf("failed to delete %s %s/%s: %w", u.GetKind(), u.GetNamespace(), u.GetName(), err))
		}
	}
	return nil
}

// toUnstructured converts a typed object for use with the dynamic client.
func toUnstructured(obj runtime.Object) (*unstructured.Unstructured, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert object: %w", err)
	}
	return &unstructured.Unstructured{Object: content}, nil
}

// applyObject applies a single unstructured object using Server-Side Apply.
func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return fmt.Errorf("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	opts := metav1.PatchOptions{FieldManager: FieldManager}

	resourceInterface := c.dynamicClient.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		_, err = resourceInterface.Namespace(obj.GetNamespace()).Patch(
			ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	} else {
		_, err = resourceInterface.Patch(
			ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	}
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// deleteObject deletes a single unstructured object, tolerating absence.
func (c *client) deleteObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	resourceInterface := c.dynamicClient.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		err = resourceInterface.Namespace(obj.GetNamespace()).Delete(ctx, obj.GetName(), metav1.DeleteOptions{})
	} else {
		err = resourceInterface.Delete(ctx, obj.GetName(), metav1.DeleteOptions{})
	}
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}
