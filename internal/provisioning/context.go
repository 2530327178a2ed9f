// Package provisioning holds the shared state threaded through the
// provisioning phases: address planning, network objects, cluster.
package provisioning

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/imamik/flotilla/internal/config"
	"github.com/imamik/flotilla/internal/platform/aws"
	"github.com/imamik/flotilla/pkg/log"
)

// State holds the shared results of provisioning phases. It is
// progressively populated as each phase completes and is passed to
// subsequent phases that need earlier results.
type State struct {
	// Network results (populated by the network provisioner)
	Plan         *config.AddressPlan
	VPCID        string
	GatewayID    string
	RouteTableID string
	ACLID        string
	// SubnetIDs is the ordered list of public subnet identifiers,
	// index-aligned with Plan.Public. The cluster provisioner consumes a
	// slice of it.
	SubnetIDs []string

	// Cluster results (populated by the cluster provisioner)
	ClusterName string
	Access      *aws.ClusterAccess
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config *config.Config
	State  *State
	Cloud  aws.CloudManager
	Logger zerolog.Logger
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, cloud aws.CloudManager) *Context {
	return &Context{
		Context: ctx,
		Config:  cfg,
		State:   NewState(),
		Cloud:   cloud,
		Logger:  log.WithComponent("provisioning"),
	}
}
