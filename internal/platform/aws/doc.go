// Package aws wraps the AWS APIs used by the provisioners: EC2 networking and
// fleet primitives, EKS control planes and node groups, IAM identity
// federation, and STS token exchange for cluster authentication.
//
// Every Ensure method is idempotent: resources are looked up by their Name tag
// (or API name) first, and create calls are only issued for resources that do
// not exist yet, so re-applying an unchanged spec performs no changes.
package aws
