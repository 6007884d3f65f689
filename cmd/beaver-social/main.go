// Command beaver-social runs a small login service on top of the oauth
// package and inspects provider configuration.
//
//	BEAVER_OAUTH_BASE_URL=http://localhost:8080/callback \
//	BEAVER_OAUTH_PROVIDERS=github \
//	BEAVER_OAUTH_GITHUB_KEY=... BEAVER_OAUTH_GITHUB_SECRET=... \
//	BEAVER_OAUTH_SECRET_KEY=$(openssl rand -hex 32) \
//	beaver-social serve --addr :8080
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gobeaver/beaver-social/config"
	"github.com/gobeaver/beaver-social/oauth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var prefix string

	root := &cobra.Command{
		Use:           "beaver-social",
		Short:         "OAuth 1.0a and 2.0 social login",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&prefix, "prefix", config.DefaultPrefix, "environment variable prefix")

	root.AddCommand(newServeCmd(&prefix), newCallbacksCmd(&prefix), newProvidersCmd())
	return root
}

// newLogger returns a JSON logger on stderr, at debug level when debug is set.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newCallbacksCmd(prefix *string) *cobra.Command {
	return &cobra.Command{
		Use:   "callbacks",
		Short: "Print the callback URL of every configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := oauth.WithPrefix(*prefix).Config()
			if err != nil {
				return err
			}
			registry, err := oauth.NewRegistryFromConfig(cfg, oauth.WithLogger(newLogger(cfg.Debug)))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range registry.Providers() {
				fmt.Fprintf(out, "%s\t%s\t%s\n", p.Type(), p.Protocol(), p.CallbackURL())
			}
			return nil
		},
	}
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the built-in provider types",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, typ := range oauth.DefinitionTypes() {
				def, _ := oauth.LookupDefinition(typ)
				fmt.Fprintf(out, "%s\t%s\n", typ, def.Protocol)
			}
		},
	}
}
