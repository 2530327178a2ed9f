package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// isAPIErrorCode checks if the error is an AWS API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.ErrorCode() == code {
				return true
			}
		}
	}
	return false
}

// isTransient checks if an error indicates a condition that resolves on its
// own: throttling, service hiccups, or eventual-consistency propagation of
// a dependent resource that was just created. These errors are retryable.
func isTransient(err error) bool {
	return isAPIErrorCode(err,
		"Throttling",
		"ThrottlingException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
		"ServiceUnavailable",
		"InternalError",
		"InternalFailure",
		"DependencyViolation",               // deletion ordering still propagating
		"InvalidInternetGatewayID.NotFound", // just-created gateway not yet visible
	)
}

// isAlreadyExists checks if an error indicates the desired state is already
// in place. Ensure operations treat these as success.
func isAlreadyExists(err error) bool {
	return isAPIErrorCode(err,
		"Resource.AlreadyAssociated",
		"RouteAlreadyExists",
		"NetworkAclEntryAlreadyExists",
		"ResourceInUseException",
		"InvalidPermission.Duplicate",
	)
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err,
		"InvalidVpcID.NotFound",
		"InvalidSubnetID.NotFound",
		"InvalidRouteTableID.NotFound",
		"InvalidInternetGatewayID.NotFound",
		"InvalidNetworkAclID.NotFound",
		"ResourceNotFoundException",
		"NotFoundException",
	)
}
