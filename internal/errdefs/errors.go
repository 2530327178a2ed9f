// Package errdefs defines the error kinds surfaced by provisioning and
// rendering, together with errors.As-based predicates for classifying them.
package errdefs

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates invalid or missing configuration input.
// It is raised before any object mutation and is never retried.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Configuration wraps err as a ConfigurationError.
func Configuration(format string, args ...any) error {
	return &ConfigurationError{Err: fmt.Errorf(format, args...)}
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// TransientInfrastructureError indicates a cloud API failure that is
// expected to resolve on its own (throttling, eventual-consistency lag).
// Callers retry these with bounded backoff before escalating.
type TransientInfrastructureError struct {
	Err error
}

func (e *TransientInfrastructureError) Error() string {
	return fmt.Sprintf("transient infrastructure error: %v", e.Err)
}

func (e *TransientInfrastructureError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientInfrastructureError.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientInfrastructureError{Err: err}
}

// IsTransient reports whether err is a TransientInfrastructureError.
func IsTransient(err error) bool {
	var tErr *TransientInfrastructureError
	return errors.As(err, &tErr)
}

// FatalProvisioningError aborts the current convergence pass. Already
// created objects stay in place; re-running convergence is the recovery
// path. Resource and Phase identify where the pass stopped.
type FatalProvisioningError struct {
	Resource string
	Phase    string
	Err      error
}

func (e *FatalProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed in phase %q on resource %q: %v", e.Phase, e.Resource, e.Err)
}

func (e *FatalProvisioningError) Unwrap() error {
	return e.Err
}

// Fatal wraps err as a FatalProvisioningError for the given phase and resource.
func Fatal(phase, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalProvisioningError{Resource: resource, Phase: phase, Err: err}
}

// IsFatal reports whether err is a FatalProvisioningError.
func IsFatal(err error) bool {
	var fErr *FatalProvisioningError
	return errors.As(err, &fErr)
}

// RenderError scopes a failure to a single instance's render. Batch
// rendering collects these without aborting unrelated instances.
type RenderError struct {
	Instance string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for instance %q: %v", e.Instance, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Render wraps err as a RenderError for the given instance.
func Render(instance string, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Instance: instance, Err: err}
}

// IsRender reports whether err is a RenderError.
func IsRender(err error) bool {
	var rErr *RenderError
	return errors.As(err, &rErr)
}
