package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/logger"
)

type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
}

// NewRootCmd builds the oauth2http command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		SilenceUsage:  true,
		SilenceErrors: true,
		Use:           "oauth2http [command]",
		Short:         "Run OAuth2 token flows through a pluggable HTTP transport",
		Long: `Run OAuth2 token-endpoint flows (device authorization, refresh, code exchange,
revocation) through the oauth2http adapter and its net/http transport.`,
		Example: `  oauth2http device
  oauth2http refresh --refresh-token <token>
  oauth2http exchange --code <code> --verifier <pkce-verifier>
  oauth2http revoke --token <token>

  # Configuration is read from ./config.yml (or --config) and .env;
  # OAUTH2HTTP_OAUTH2__CLIENT_SECRET overrides oauth2.client_secret.`,
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config.yml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show debug logs")

	root.AddCommand(
		newDeviceCmd(opts),
		newRefreshCmd(opts),
		newExchangeCmd(opts),
		newRevokeCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// withApp loads configuration, builds the app, and runs fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(opts.configFile, opts.envFile)
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Logs go to stderr unless configured otherwise; stdout carries command output.
	logOut := cmd.ErrOrStderr()
	if cfg.Logging.Output == "stdout" {
		logOut = cmd.OutOrStdout()
	}

	a, err := newApp(ctx, cfg, logOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.log.Warn("close failed", logger.Fields(logger.FieldError, cerr.Error()))
		}
	}()

	return fn(a.Context(ctx), a)
}

// tokenOutput is what token-producing commands print.
type tokenOutput struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
	Scope        any       `json:"scope,omitempty"`
}

func printToken(w io.Writer, tok *oauth2.Token) error {
	out := tokenOutput{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
		Scope:        tok.Extra("scope"),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}
