package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/service"
	"github.com/noah-isme/school-admin-api/pkg/config"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token for the API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		tokens := service.NewTokenService(service.TokenConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			Expiry: cfg.JWT.Expiration,
		})
		signed, expires, err := tokens.Issue(tokenSubject, models.Role(strings.ToUpper(tokenRole)))
		if err != nil {
			return err
		}
		cmd.Println(signed)
		cmd.PrintErrf("expires %s\n", expires.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, usually the operator's user id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleViewer), "ADMIN, SECRETARY or VIEWER")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
