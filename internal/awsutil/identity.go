package awsutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ErrSSOTokenExpired marks an identity failure caused by an expired or
// missing SSO login rather than broken configuration.
var ErrSSOTokenExpired = errors.New("SSO session expired")

// LoginFunc runs an interactive login flow for a profile.
type LoginFunc func(ctx context.Context, profile string) error

// CallerIdentityAPI is the slice of the STS client that identity lookups
// need.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity resolves AWS account ids through STS, re-authenticating through
// the SSO login flow when a session has expired.
type Identity struct {
	login   LoginFunc
	clients func(ctx context.Context, profile, region string) (CallerIdentityAPI, error)
	logger  *slog.Logger
}

// NewIdentity returns an Identity backed by real STS clients. A nil logger
// falls back to slog.Default().
func NewIdentity(login LoginFunc, logger *slog.Logger) *Identity {
	if logger == nil {
		logger = slog.Default()
	}
	return &Identity{
		login:   login,
		clients: defaultSTSClient,
		logger:  logger,
	}
}

func defaultSTSClient(ctx context.Context, profile, region string) (CallerIdentityAPI, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(profile),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return sts.NewFromConfig(cfg), nil
}

// AccountID returns the account id owning the profile's credentials.
// Expired-session failures satisfy errors.Is(err, ErrSSOTokenExpired).
func (i *Identity) AccountID(ctx context.Context, profile, region string) (string, error) {
	client, err := i.clients(ctx, profile, region)
	if err != nil {
		return "", classify(fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err))
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", classify(fmt.Errorf("failed to get caller identity for profile %q: %w", profile, err))
	}
	return aws.ToString(out.Account), nil
}

// EnsureAccount resolves the profile's account id, forcing a login first
// when asked. When the lookup fails because the SSO session has expired it
// logs in again and retries exactly once; any other failure, or a failure
// that survives the retry, is returned to the caller.
func (i *Identity) EnsureAccount(ctx context.Context, profile, region string, forceLogin bool) (string, error) {
	if forceLogin {
		if err := i.login(ctx, profile); err != nil {
			return "", fmt.Errorf("failed to log in profile %q: %w", profile, err)
		}
	}

	accountID, err := i.AccountID(ctx, profile, region)
	if err == nil {
		return accountID, nil
	}
	if !errors.Is(err, ErrSSOTokenExpired) {
		return "", err
	}

	i.logger.Info("SSO session expired, logging in again", "profile", profile)
	if err := i.login(ctx, profile); err != nil {
		return "", fmt.Errorf("failed to log in profile %q: %w", profile, err)
	}
	return i.AccountID(ctx, profile, region)
}

// classify tags expired-SSO failures so callers can trigger a re-login.
func classify(err error) error {
	var tokenErr *ssocreds.InvalidTokenError
	if errors.As(err, &tokenErr) || strings.Contains(err.Error(), "the SSO session has expired or is invalid") {
		return fmt.Errorf("%w: %v", ErrSSOTokenExpired, err)
	}
	return err
}
