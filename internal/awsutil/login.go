package awsutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// SSOLogin returns a LoginFunc that shells out to `aws sso login` for the
// given profile. The command is attached to the user's terminal so the
// device-authorization flow can prompt and open a browser.
func SSOLogin(awsBin string, logger *slog.Logger) LoginFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, profile string) error {
		logger.Info("starting SSO login", "profile", profile)

		cmd := exec.CommandContext(ctx, awsBin, "sso", "login", "--profile", profile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("aws sso login failed for profile %q: %w", profile, err)
		}
		return nil
	}
}
