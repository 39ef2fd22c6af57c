// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/trendscout"
	"github.com/poiesic/trendscout/metrics"
	"github.com/poiesic/trendscout/provider"
	"github.com/poiesic/trendscout/taxonomy"
	"github.com/urfave/cli/v2"
)

const metricsKey = "metrics"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "trendscout",
		Usage: "Discover and rank rising shopping-search keywords",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "taxonomy",
				Aliases: []string{"t"},
				Usage:   "Path to the category keyword document",
				Value:   "category_keywords.json",
				EnvVars: []string{"TRENDSCOUT_TAXONOMY"},
			},
			&cli.StringFlag{
				Name:    "history",
				Usage:   "Directory for ranking history and the trend cache (empty keeps them in memory)",
				EnvVars: []string{"TRENDSCOUT_HISTORY"},
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "How long fetched trend series are reused (0 disables the cache)",
				Value: trendscout.DefaultCacheTTL,
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "YAML seed taxonomy used to bootstrap or complete the document",
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "Naver open API client id",
				EnvVars: []string{provider.EnvClientID},
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "Naver open API client secret",
				EnvVars: []string{provider.EnvClientSecret},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Naver open API root",
				Value:   provider.DefaultBaseURL,
				EnvVars: []string{provider.EnvBaseURL},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Timeout for a single API call",
				Value:   10 * time.Second,
				EnvVars: []string{provider.EnvTimeout},
			},
			&cli.StringFlag{
				Name:    "rate-limit",
				Usage:   "Local call pacing such as 10-S (empty disables it)",
				EnvVars: []string{provider.EnvRateLimit},
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this textfile on exit",
			},
		},
		Before: func(c *cli.Context) error {
			if err := setupLogger(c); err != nil {
				return err
			}
			return setupMetrics(c)
		},
		After: writeMetrics,
		Commands: []*cli.Command{
			discoverCommand(),
			risingCommand(),
			timelineCommand(),
			categoriesCommand(),
			keywordsCommand(),
			historyCommand(),
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func setupMetrics(c *cli.Context) error {
	if c.String("metrics-file") == "" {
		return nil
	}
	recorder, err := metrics.NewRecorder()
	if err != nil {
		return fmt.Errorf("failed to create metrics recorder: %w", err)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metricsKey] = recorder
	return nil
}

func recorderOf(c *cli.Context) *metrics.Recorder {
	recorder, _ := c.App.Metadata[metricsKey].(*metrics.Recorder)
	return recorder
}

func writeMetrics(c *cli.Context) error {
	path := c.String("metrics-file")
	recorder := recorderOf(c)
	if path == "" || recorder == nil {
		return nil
	}
	if err := recorder.WriteTextfile(path); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// openWorkspace opens the taxonomy and history named by the global flags.
// withProvider also connects the Naver API, which requires credentials.
func openWorkspace(c *cli.Context, withProvider bool) (*trendscout.Workspace, error) {
	opts := []trendscout.Option{
		trendscout.WithHistoryPath(c.String("history")),
		trendscout.WithCacheTTL(c.Duration("cache-ttl")),
		trendscout.WithMetrics(recorderOf(c)),
		trendscout.WithLogger(slog.Default()),
	}

	if path := c.String("seed"); path != "" {
		seed, err := taxonomy.LoadSeedYAML(path)
		if err != nil {
			return nil, err
		}
		if seed == nil {
			return nil, fmt.Errorf("seed file %s not found", path)
		}
		opts = append(opts, trendscout.WithSeed(seed))
	}

	if withProvider {
		cfg := provider.NewConfig(
			provider.WithBaseURL(c.String("base-url")),
			provider.WithCredentials(c.String("client-id"), c.String("client-secret")),
			provider.WithTimeout(c.Duration("timeout")),
			provider.WithRateLimit(c.String("rate-limit")),
		)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid provider configuration: %w", err)
		}
		opts = append(opts, trendscout.WithProviderConfig(cfg))
	}

	ws, err := trendscout.Open(c.String("taxonomy"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, nil
}
