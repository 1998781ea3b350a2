package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	jwttoken "fraudscreen/internal/jwt_token"
)

func newTokenCmd() *cobra.Command {
	var (
		auditor string
		ttl     time.Duration
		issuer  string
	)
	cmd := &cobra.Command{
		Use:   "token --auditor ID",
		Short: "Mint a bearer token accepted by the server's /api routes",
		Long:  "Signs with FRAUDSCREEN_AUTH_SIGNING_KEY, the same key the server validates with.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := os.Getenv("FRAUDSCREEN_AUTH_SIGNING_KEY")
			if key == "" {
				return fmt.Errorf("FRAUDSCREEN_AUTH_SIGNING_KEY is not set")
			}
			token, err := jwttoken.NewJWTService(key, issuer).GenerateAuditorToken(auditor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&auditor, "auditor", "", "auditor ID recorded on screened reports")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&issuer, "issuer", "fraudscreen", "must match FRAUDSCREEN_AUTH_ISSUER on the server")
	_ = cmd.MarkFlagRequired("auditor")
	return cmd
}
