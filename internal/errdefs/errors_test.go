package errdefs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	t.Parallel()
	err := Configuration("subnet count %d exceeds reserved range", 99)

	assert.True(t, IsConfiguration(err))
	assert.False(t, IsTransient(err))
	assert.Contains(t, err.Error(), "configuration error")
	assert.Contains(t, err.Error(), "99")
}

func TestConfigurationError_SurvivesWrapping(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("loading config: %w", Configuration("base block too small"))

	assert.True(t, IsConfiguration(err))
}

func TestTransient_NilPassthrough(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Transient(nil))
	assert.NoError(t, Fatal("network", "vpc", nil))
	assert.NoError(t, Render("red_trader", nil))
}

func TestFatalProvisioningError_CarriesPhaseAndResource(t *testing.T) {
	t.Parallel()
	cause := errors.New("api unreachable")
	err := Fatal("cluster", "trading-eks", cause)

	var fErr *FatalProvisioningError
	assert.True(t, errors.As(err, &fErr))
	assert.Equal(t, "cluster", fErr.Phase)
	assert.Equal(t, "trading-eks", fErr.Resource)
	assert.ErrorIs(t, err, cause)
}

func TestRenderError_ScopedToInstance(t *testing.T) {
	t.Parallel()
	err := Render("blue_trader", Configuration("missing COOLDOWN_SECONDS"))

	assert.True(t, IsRender(err))
	// The underlying configuration error stays reachable.
	assert.True(t, IsConfiguration(err))

	var rErr *RenderError
	assert.True(t, errors.As(err, &rErr))
	assert.Equal(t, "blue_trader", rErr.Instance)
}

func TestTransientError_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("throttled")
	err := Transient(cause)

	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
}
