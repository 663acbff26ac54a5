package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/learnhub/enrollment-pipeline/internal/api/middleware"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [token]",
		Short: "Print the claims of a token without verifying its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var claims middleware.Claims
			if _, _, err := jwt.NewParser().ParseUnverified(args[0], &claims); err != nil {
				return fmt.Errorf("parse token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "subject: %s\n", claims.Subject)
			fmt.Fprintf(out, "role:    %s\n", claims.Role)
			if claims.IssuedAt != nil {
				fmt.Fprintf(out, "issued:  %s\n", claims.IssuedAt.Time.UTC().Format(time.RFC3339))
			}
			if claims.ExpiresAt != nil {
				fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "expires: never")
			}
			return nil
		},
	}
}
