package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const nameTag = "Name"

// ManagedByTag marks every resource this tool owns so deletes can be scoped
// to resources it created.
const ManagedByTag = "rfleet.io/managed-by"

// ManagedByValue is the value written under ManagedByTag.
const ManagedByValue = "rfleet"

// StackTag groups every resource belonging to one named deployment so
// teardown can enumerate them without guessing individual resource names.
const StackTag = "rfleet.io/stack"

// mergeTags returns the standard tag set for a named resource merged with
// caller-supplied tags. Caller tags win on conflict, except Name and the
// managed-by marker.
func mergeTags(name string, tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags)+2)
	for k, v := range tags {
		out[k] = v
	}
	out[nameTag] = name
	out[ManagedByTag] = ManagedByValue
	return out
}

func ec2Tags(name string, tags map[string]string) []ec2types.Tag {
	merged := mergeTags(name, tags)
	out := make([]ec2types.Tag, 0, len(merged))
	for k, v := range merged {
		out = append(out, ec2types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}
	return out
}

func ec2TagSpec(resource ec2types.ResourceType, name string, tags map[string]string) []ec2types.TagSpecification {
	return []ec2types.TagSpecification{{
		ResourceType: resource,
		Tags:         ec2Tags(name, tags),
	}}
}

func asgTags(groupName string, tags map[string]string) []asgtypes.Tag {
	merged := mergeTags(groupName, tags)
	out := make([]asgtypes.Tag, 0, len(merged))
	for k, v := range merged {
		out = append(out, asgtypes.Tag{
			Key:               aws.String(k),
			Value:             aws.String(v),
			PropagateAtLaunch: aws.Bool(true),
			ResourceId:        aws.String(groupName),
			ResourceType:      aws.String("auto-scaling-group"),
		})
	}
	return out
}

// nameFilter builds the Describe filter matching resources by Name tag.
func nameFilter(name string) []ec2types.Filter {
	return []ec2types.Filter{
		{Name: aws.String("tag:" + nameTag), Values: []string{name}},
		{Name: aws.String("tag:" + ManagedByTag), Values: []string{ManagedByValue}},
	}
}

// stackFilter builds the Describe filter matching every resource of a named
// deployment.
func stackFilter(stack string) []ec2types.Filter {
	return []ec2types.Filter{
		{Name: aws.String("tag:" + StackTag), Values: []string{stack}},
		{Name: aws.String("tag:" + ManagedByTag), Values: []string{ManagedByValue}},
	}
}
