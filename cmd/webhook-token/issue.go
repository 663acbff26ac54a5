package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/learnhub/enrollment-pipeline/internal/api/middleware"
)

func issueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed token for a webhook source or operator",
		Long: `Issue an HS256 token signed with JWT_SECRET.

Checkout providers get the integration role, which may only post purchase
webhooks. Operators get the administrator role, which may also look up
recorded purchases.`,
		Args: cobra.NoArgs,
		RunE: runIssue,
	}

	cmd.Flags().StringP("subject", "s", "", "Caller name recorded in logs (required)")
	cmd.Flags().StringP("role", "r", middleware.RoleIntegration, "Role: integration or administrator")
	cmd.Flags().Duration("ttl", 90*24*time.Hour, "Token lifetime; 0 for no expiry")
	cmd.Flags().String("secret", "", "Signing secret (defaults to $JWT_SECRET)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runIssue(cmd *cobra.Command, _ []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	role, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	switch role {
	case middleware.RoleIntegration, middleware.RoleAdministrator:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	if secret == "" {
		return errors.New("no signing secret: set JWT_SECRET or pass --secret")
	}

	token, err := middleware.IssueToken(secret, subject, role, ttl, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
