package awsutil

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eks"
)

// EKSAPI is the slice of the EKS client that cluster discovery needs.
type EKSAPI interface {
	ListClusters(ctx context.Context, params *eks.ListClustersInput, optFns ...func(*eks.Options)) (*eks.ListClustersOutput, error)
	DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

// ClusterDetails carries what kubeconfig generation needs to know about a
// cluster.
type ClusterDetails struct {
	Name     string
	Endpoint string
	CAData   []byte
	ARN      string
}

// EKSClient discovers clusters through the EKS API, building one client
// per (profile, region) pair.
type EKSClient struct {
	clients func(ctx context.Context, profile, region string) (EKSAPI, error)
}

// NewEKSClient returns an EKSClient backed by real EKS API clients.
func NewEKSClient() *EKSClient {
	return &EKSClient{clients: defaultEKSClient}
}

func defaultEKSClient(ctx context.Context, profile, region string) (EKSAPI, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(profile),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return eks.NewFromConfig(cfg), nil
}

// ListClusters returns every cluster name visible to the profile in the
// region, following pagination.
func (c *EKSClient) ListClusters(ctx context.Context, profile, region string) ([]string, error) {
	client, err := c.clients(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}

	var names []string
	var nextToken *string
	for {
		out, err := client.ListClusters(ctx, &eks.ListClustersInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", region, err)
		}
		names = append(names, out.Clusters...)
		if out.NextToken == nil {
			return names, nil
		}
		nextToken = out.NextToken
	}
}

// DescribeCluster fetches the API endpoint, the decoded CA bundle, and the
// ARN for one cluster.
func (c *EKSClient) DescribeCluster(ctx context.Context, profile, region, name string) (*ClusterDetails, error) {
	client, err := c.clients(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}

	out, err := client.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("failed to describe cluster %q: %w", name, err)
	}

	cluster := out.Cluster
	if cluster == nil || cluster.Endpoint == nil || cluster.CertificateAuthority == nil || cluster.CertificateAuthority.Data == nil {
		return nil, fmt.Errorf("cluster %q description is incomplete", name)
	}

	caData, err := base64.StdEncoding.DecodeString(aws.ToString(cluster.CertificateAuthority.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate authority data for cluster %q: %w", name, err)
	}

	return &ClusterDetails{
		Name:     name,
		Endpoint: aws.ToString(cluster.Endpoint),
		CAData:   caData,
		ARN:      aws.ToString(cluster.Arn),
	}, nil
}
