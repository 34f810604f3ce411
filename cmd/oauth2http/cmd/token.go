package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/logger"
)

func newDeviceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Obtain a token with the device authorization grant",
		Long: `Request a device code, print the verification URL and user code, then poll
the token endpoint until the user approves or the code expires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if a.oauth.Endpoint.DeviceAuthURL == "" {
					return fmt.Errorf("oauth2.device_auth_url is not configured")
				}
				da, err := a.oauth.DeviceAuth(ctx)
				if err != nil {
					return fmt.Errorf("device authorization: %w", err)
				}

				uri := da.VerificationURIComplete
				if uri == "" {
					uri = da.VerificationURI
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Open %s and enter code %s\n", uri, da.UserCode)

				tok, err := a.oauth.DeviceAccessToken(ctx, da)
				if err != nil {
					return fmt.Errorf("device access token: %w", err)
				}
				a.log.Info("token issued", logger.Fields(logger.FieldGrant, "device_code"))
				return printToken(cmd.OutOrStdout(), tok)
			})
		},
	}
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	var refreshToken string
	c := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange a refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				tok, err := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
				if err != nil {
					return fmt.Errorf("refresh: %w", err)
				}
				a.log.Info("token issued", logger.Fields(logger.FieldGrant, "refresh_token"))
				return printToken(cmd.OutOrStdout(), tok)
			})
		},
	}
	c.Flags().StringVar(&refreshToken, "refresh-token", "", "Refresh token to redeem")
	_ = c.MarkFlagRequired("refresh-token")
	return c
}

func newExchangeCmd(opts *rootOptions) *cobra.Command {
	var code, verifier string
	c := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for a token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var copts []oauth2.AuthCodeOption
				if verifier != "" {
					copts = append(copts, oauth2.VerifierOption(verifier))
				}
				tok, err := a.oauth.Exchange(ctx, code, copts...)
				if err != nil {
					return fmt.Errorf("code exchange: %w", err)
				}
				a.log.Info("token issued", logger.Fields(logger.FieldGrant, "authorization_code"))
				return printToken(cmd.OutOrStdout(), tok)
			})
		},
	}
	c.Flags().StringVar(&code, "code", "", "Authorization code")
	c.Flags().StringVar(&verifier, "verifier", "", "PKCE code verifier")
	_ = c.MarkFlagRequired("code")
	return c
}
