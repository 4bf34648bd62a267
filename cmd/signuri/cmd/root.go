// Package cmd implements the signuri CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopello/urisign/pkg/config"
	"github.com/shopello/urisign/pkg/logger"
	"github.com/shopello/urisign/pkg/requestid"
	"github.com/shopello/urisign/pkg/signuri"
)

// rootOptions holds persistent flags and what PersistentPreRunE builds from them.
type rootOptions struct {
	envFiles []string
	secret   string
	param    string

	logger *slog.Logger
	signer *signuri.Signer
}

// NewRootCmd returns the signuri command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "signuri",
		Short: "Sign and verify payloads embedded in URIs",
		Long: "signuri appends a tamper-evident JSON payload to a URI as a query\n" +
			"parameter, verifies such URIs, and serves signed click redirects.\n\n" +
			"The secret and wire settings come from SIGNURI_* environment variables\n" +
			"(or --env-file); --secret and --param override them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.secret, "secret", "", "shared secret (overrides SIGNURI_SECRET)")
	root.PersistentFlags().StringVar(&opts.param, "param", "", "query parameter name (overrides SIGNURI_PARAM)")

	root.AddCommand(newSignCmd(opts))
	root.AddCommand(newVerifyCmd(opts))
	root.AddCommand(newServeCmd(opts))

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	if len(o.envFiles) > 0 {
		if err := config.LoadEnv(o.envFiles...); err != nil {
			return fmt.Errorf("loading env files: %w", err)
		}
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log, err := logger.NewFromConfig(logCfg,
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithAttr(logger.Component("signuri")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	var cfg signuri.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if cmd.Flags().Changed("secret") {
		cfg.Secret = o.secret
	}
	if cmd.Flags().Changed("param") {
		cfg.Param = o.param
	}
	if cfg.Secret == "" {
		log.Warn("signing secret is empty; tokens are forgeable")
	}

	signer, err := signuri.NewFromConfig(cfg, signuri.WithLogger(log))
	if err != nil {
		return err
	}

	o.logger = log
	o.signer = signer
	return nil
}
