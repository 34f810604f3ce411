package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/kbukum/oauth2http/exchange"
)

// revokeRequest builds an RFC 7009 revocation request. Client credentials
// go in the body unless the configured auth style is "header".
func revokeRequest(cfg *OAuth2Config, token, hint string) (*exchange.Request, error) {
	form := url.Values{"token": {token}}
	if hint != "" {
		form.Set("token_type_hint", hint)
	}

	headers := exchange.Headers{}.
		Add("Content-Type", "application/x-www-form-urlencoded").
		Add("Accept", "application/json")

	if cfg.AuthStyle == "header" {
		headers = headers.Add("Authorization", basicAuth(cfg.ClientID, cfg.ClientSecret))
	} else {
		form.Set("client_id", cfg.ClientID)
		if cfg.ClientSecret != "" {
			form.Set("client_secret", cfg.ClientSecret)
		}
	}

	return exchange.NewRequest(exchange.MethodPost, cfg.RevokeURL, headers, []byte(form.Encode()))
}

// basicAuth encodes client credentials per RFC 6749 section 2.3.1.
func basicAuth(id, secret string) string {
	creds := url.QueryEscape(id) + ":" + url.QueryEscape(secret)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

func newRevokeCmd(opts *rootOptions) *cobra.Command {
	var token, hint string
	c := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an access or refresh token (RFC 7009)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if a.cfg.OAuth2.RevokeURL == "" {
					return fmt.Errorf("oauth2.revoke_url is not configured")
				}
				req, err := revokeRequest(&a.cfg.OAuth2, token, hint)
				if err != nil {
					return err
				}
				resp, err := a.client.Execute(ctx, req)
				if err != nil {
					return fmt.Errorf("revoke: %w", err)
				}
				if !resp.IsSuccess() {
					return fmt.Errorf("revoke: server answered %d: %s", resp.StatusCode, resp.Body)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "revoked")
				return nil
			})
		},
	}
	c.Flags().StringVar(&token, "token", "", "Token to revoke")
	c.Flags().StringVar(&hint, "hint", "", "token_type_hint (access_token or refresh_token)")
	_ = c.MarkFlagRequired("token")
	return c
}
