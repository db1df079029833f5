package kubeconfig

import (
	"context"
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"

	"github.com/aryankumar/multikube/internal/awsutil"
	"github.com/aryankumar/multikube/internal/inventory"
)

// Describer fetches the connection details for one cluster.
type Describer interface {
	DescribeCluster(ctx context.Context, profile, region, name string) (*awsutil.ClusterDetails, error)
}

// EKSGenerator writes kubeconfigs whose user entry obtains credentials
// through `aws eks get-token`, matching the shape produced by `aws eks
// update-kubeconfig`.
type EKSGenerator struct {
	describer Describer
	awsBin    string
}

// NewEKSGenerator returns a Generator backed by the given cluster
// describer. awsBin is the executable the kubeconfig will invoke for
// tokens.
func NewEKSGenerator(describer Describer, awsBin string) *EKSGenerator {
	return &EKSGenerator{describer: describer, awsBin: awsBin}
}

// Generate looks up the cluster's endpoint and CA bundle and writes a
// single-context kubeconfig to path.
func (g *EKSGenerator) Generate(ctx context.Context, target inventory.Target, accountID, path string) error {
	details, err := g.describer.DescribeCluster(ctx, target.Profile, target.Region, target.Cluster)
	if err != nil {
		return err
	}

	name := details.ARN
	if name == "" {
		name = fmt.Sprintf("arn:aws:eks:%s:%s:cluster/%s", target.Region, accountID, target.Cluster)
	}

	cfg := api.NewConfig()
	cfg.Clusters[name] = &api.Cluster{
		Server:                   details.Endpoint,
		CertificateAuthorityData: details.CAData,
	}
	cfg.AuthInfos[name] = &api.AuthInfo{
		Exec: &api.ExecConfig{
			APIVersion: "client.authentication.k8s.io/v1beta1",
			Command:    g.awsBin,
			Args: []string{
				"--region", target.Region,
				"eks", "get-token",
				"--cluster-name", target.Cluster,
				"--output", "json",
			},
			Env: []api.ExecEnvVar{
				{Name: "AWS_PROFILE", Value: target.Profile},
			},
			InteractiveMode: api.IfAvailableExecInteractiveMode,
		},
	}
	cfg.Contexts[name] = &api.Context{Cluster: name, AuthInfo: name}
	cfg.CurrentContext = name

	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		return fmt.Errorf("failed to write kubeconfig for cluster %q: %w", target.Cluster, err)
	}
	return nil
}
