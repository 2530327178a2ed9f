// Package naming provides consistent naming functions for cloud resources.
//
// Resource names follow the pattern {env}-{type} for network objects and
// {env}-{type}-{index} for indexed objects. Deriving every name from the
// environment name alone makes re-running provisioning target the same
// resources instead of creating duplicates.
package naming

import "fmt"

func Network(env string) string {
	return fmt.Sprintf("%s-vpc", env)
}

func Subnet(env string, index int) string {
	return fmt.Sprintf("%s-public-%d", env, index)
}

func Gateway(env string) string {
	return fmt.Sprintf("%s-igw", env)
}

func RouteTable(env string) string {
	return fmt.Sprintf("%s-public-rt", env)
}

func NetworkACL(env string) string {
	return fmt.Sprintf("%s-public-acl", env)
}

func Cluster(env string) string {
	return fmt.Sprintf("%s-eks", env)
}

func NodeGroup(env string) string {
	return fmt.Sprintf("%s-workers", env)
}
