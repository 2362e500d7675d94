package aws

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

const (
	// clusterIDHeader carries the cluster name inside the presigned identity
	// request so the API server can scope the token.
	clusterIDHeader = "X-K8s-Aws-Id"

	tokenPrefix     = "k8s-aws-v1."
	tokenExpirySecs = "600"
)

// AuthToken exchanges the client's credentials for a bearer token the
// cluster API server accepts. The token is a presigned STS identity call
// bound to the cluster name.
func (c *RealClient) AuthToken(ctx context.Context, clusterName string) (string, error) {
	presigned, err := c.sts.PresignGetCallerIdentity(ctx, &sts.GetCallerIdentityInput{},
		func(po *sts.PresignOptions) {
			po.ClientOptions = append(po.ClientOptions, func(o *sts.Options) {
				o.APIOptions = append(o.APIOptions,
					smithyhttp.AddHeaderValue(clusterIDHeader, clusterName),
					smithyhttp.SetHeaderValue("X-Amz-Expires", tokenExpirySecs),
				)
			})
		})
	if err != nil {
		return "", fmt.Errorf("presigning identity request for %s: %w", clusterName, err)
	}

	return tokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(presigned.URL)), nil
}
