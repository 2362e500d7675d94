package aws

import (
	"context"
	"encoding/base64"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// Kubeconfig assembles an in-memory kubeconfig for the cluster. The embedded
// credential is a freshly exchanged bearer token, so the result is
// short-lived and should not be persisted.
func (c *RealClient) Kubeconfig(ctx context.Context, clusterName string) ([]byte, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(clusterName)})
	if err != nil {
		return nil, fmt.Errorf("describing cluster %s: %w", clusterName, err)
	}
	cluster := clusterFromAPI(out.Cluster)
	if cluster.Endpoint == "" || cluster.CertificateAuthority == "" {
		return nil, fmt.Errorf("cluster %s has no endpoint yet (status %s)", clusterName, cluster.Status)
	}

	token, err := c.AuthToken(ctx, clusterName)
	if err != nil {
		return nil, err
	}
	return BuildKubeconfig(cluster, token)
}

// BuildKubeconfig renders a kubeconfig document for the given cluster record
// and bearer token.
func BuildKubeconfig(cluster *Cluster, token string) ([]byte, error) {
	ca, err := base64.StdEncoding.DecodeString(cluster.CertificateAuthority)
	if err != nil {
		return nil, fmt.Errorf("decoding CA bundle for %s: %w", cluster.Name, err)
	}

	cfg := clientcmdapi.Config{
		Clusters: map[string]*clientcmdapi.Cluster{
			cluster.Name: {
				Server:                   cluster.Endpoint,
				CertificateAuthorityData: ca,
			},
		},
		AuthInfos: map[string]*clientcmdapi.AuthInfo{
			cluster.Name: {Token: token},
		},
		Contexts: map[string]*clientcmdapi.Context{
			cluster.Name: {
				Cluster:  cluster.Name,
				AuthInfo: cluster.Name,
			},
		},
		CurrentContext: cluster.Name,
	}

	data, err := clientcmd.Write(cfg)
	if err != nil {
		return nil, fmt.Errorf("serializing kubeconfig for %s: %w", cluster.Name, err)
	}
	return data, nil
}
