package cmd

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/shopello/urisign/pkg/clicks"
	"github.com/shopello/urisign/pkg/config"
	"github.com/shopello/urisign/pkg/httpserver"
	"github.com/shopello/urisign/pkg/redis"
	"github.com/shopello/urisign/pkg/requestid"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		fallbackURL string
		redisPrefix string
		stats       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve signed click redirects on GET /r",
		Long: "serve verifies the signed parameter of GET /r, records the click and\n" +
			"redirects to the payload's url. Clicks are counted in Redis when\n" +
			"REDIS_URL is set and in memory otherwise. HTTP_* variables configure\n" +
			"the listener.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := opts.logger

			var httpCfg httpserver.Config
			if err := config.Load(&httpCfg); err != nil {
				return err
			}
			var redisCfg redis.Config
			if err := config.Load(&redisCfg); err != nil {
				return err
			}

			var (
				recorder clicks.Recorder = clicks.NewMemoryRecorder()
				checks   []func(context.Context) error
			)
			if redisCfg.ConnectionURL != "" {
				client, err := redis.Connect(ctx, redisCfg)
				if err != nil {
					return err
				}
				defer client.Close()
				recorder = clicks.NewRedisRecorder(client, redisPrefix)
				checks = append(checks, redis.Healthcheck(client))
			}

			clickOpts := []clicks.Option{clicks.WithLogger(log)}
			if fallbackURL != "" {
				clickOpts = append(clickOpts, clicks.WithFallbackURL(fallbackURL))
			}
			if stats {
				clickOpts = append(clickOpts, clicks.WithStatsEndpoint())
			}

			r := chi.NewRouter()
			r.Use(requestid.Middleware, httpserver.RequestLogger(log))
			r.Get("/health/live", httpserver.HealthCheckHandler(log))
			r.Get("/health/ready", httpserver.HealthCheckHandler(log, append(checks, pingNothing)...))
			r.Mount("/", clicks.Router(opts.signer, recorder, clickOpts...))

			return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, r)
		},
	}

	cmd.Flags().StringVar(&fallbackURL, "fallback-url", "", "redirect rejected links here instead of answering 404")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", "clicks", "key prefix for Redis click counters")
	cmd.Flags().BoolVar(&stats, "stats", false, "expose click counters on GET /stats")

	return cmd
}

// pingNothing keeps /health/ready a readiness check when no dependencies are configured.
func pingNothing(context.Context) error { return nil }
