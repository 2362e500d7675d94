package provisioning

// Resource naming helpers. Every resource name is derived from the stack
// name so repeated applies resolve to the same resources.

func VPCName(stack string) string { return stack + "-vpc" }

func PublicSubnetName(stack, az string) string { return stack + "-public-" + az }

func PrivateSubnetName(stack, az string) string { return stack + "-private-" + az }

func InternetGatewayName(stack string) string { return stack + "-igw" }

func NATGatewayName(stack string) string { return stack + "-nat" }

func PublicRouteTableName(stack string) string { return stack + "-public-rt" }

func PrivateRouteTableName(stack string) string { return stack + "-private-rt" }

func FleetName(stack string) string { return stack + "-fleet" }

func SecurityGroupName(stack string) string { return stack + "-fleet-sg" }

func LaunchTemplateName(stack string) string { return stack + "-fleet-lt" }

func KeyPairName(stack string) string { return stack + "-fleet-key" }

func ClusterName(stack string) string { return stack }

func NodeGroupName(stack string) string { return stack + "-nodes" }

func ClusterRoleName(stack string) string { return stack + "-eks-cluster-role" }

func NodeRoleName(stack string) string { return stack + "-eks-node-role" }

func AutoscalerRoleName(stack string) string { return stack + "-cluster-autoscaler" }
