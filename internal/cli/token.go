package cli

import (
	"fmt"
	"time"

	"dompet/internal/config"
	"dompet/internal/middleware"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:          "token",
	Short:        "Issue a development API token for --user",
	RunE:         tokenCmdF,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
}

func tokenCmdF(cmd *cobra.Command, args []string) error {
	uid, err := userFlag(cmd)
	if err != nil {
		return err
	}
	auth := config.Load().Auth
	if auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is not set")
	}
	ttl, _ := cmd.Flags().GetDuration("ttl")
	token, err := middleware.IssueToken(auth.JWTSecret, auth.JWTIssuer, uid, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
