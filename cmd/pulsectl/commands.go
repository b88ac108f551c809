package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opengovern/stream-pulse-bridge/config"
	"github.com/opengovern/stream-pulse-bridge/streamstats"
)

// overrideKeys are the persistent flags forwarded to config.LoadWithFlags.
var overrideKeys = []string{"analytics-api", "stats-api", "legacy-pulse-host", "api-token", "log-level", "timeout", "debug"}

type cli struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New(), log: logrus.New()}

	root := &cobra.Command{
		Use:           "pulsectl",
		Short:         "Query stream sessions and live pulse from the analytics services",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("analytics-api", "", "analytics API base path (PULSE_ANALYTICS_API)")
	flags.String("stats-api", "", "stats API base path (PULSE_STATS_API)")
	flags.String("legacy-pulse-host", "", "host whose pulse envelopes get normalized (PULSE_LEGACY_PULSE_HOST)")
	flags.String("api-token", "", "bearer token for both services (PULSE_API_TOKEN)")
	flags.Duration("timeout", 0, "request timeout (PULSE_TIMEOUT)")
	flags.String("log-level", "", "log level (PULSE_LOG_LEVEL)")
	flags.Bool("debug", false, "trace every request (PULSE_DEBUG)")
	flags.String("config", "", "config file (default ./pulsectl.yaml)")

	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.pulseCommand())
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	if err := c.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	if file := c.v.GetString("config"); file != "" {
		c.v.SetConfigFile(file)
	} else {
		c.v.SetConfigName("pulsectl")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
	}
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func (c *cli) service() (*streamstats.Service, error) {
	overrides := make(map[string]interface{})
	for _, key := range overrideKeys {
		if !c.v.IsSet(key) {
			continue
		}
		switch key {
		case "timeout":
			overrides[key] = c.v.GetDuration(key)
		case "debug":
			overrides[key] = c.v.GetBool(key)
		default:
			overrides[key] = c.v.GetString(key)
		}
	}

	cfg, err := config.LoadWithFlags(overrides)
	if err != nil {
		return nil, err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	c.log.SetLevel(level)

	svc, err := streamstats.New(cfg)
	if err != nil {
		return nil, err
	}
	svc.Bridge().SetLogger(c.log)
	if cfg.Debug {
		svc.Bridge().SetDebug(true)
	}
	return svc, nil
}

func (c *cli) sessionsCommand() *cobra.Command {
	var days int
	var metrics bool
	cmd := &cobra.Command{
		Use:   "sessions <streamKey>",
		Short: "List the sessions of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			out, err := svc.GetSessionsList(cmd.Context(), args[0], days, metrics)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "day offset (default 360)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "include metrics")
	return cmd
}

func (c *cli) sessionCommand() *cobra.Command {
	var points int
	cmd := &cobra.Command{
		Use:   "session <sessionId>",
		Short: "Fetch the time series of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			out, err := svc.GetSessionData(cmd.Context(), args[0], points)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&points, "points", 0, "only the last N points")
	return cmd
}

func (c *cli) pulseCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "pulse <streamKey>",
		Short: "Fetch the live pulse of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			res, err := svc.GetStreamMediaPulse(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}
			c.log.WithField("kind", res.Kind.String()).Debug("pulse fetched")

			out, err := json.Marshal(res)
			if err != nil {
				// passthrough bodies are not guaranteed to be JSON
				_, werr := io.WriteString(cmd.OutOrStdout(), string(res.Raw)+"\n")
				return werr
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "return the first envelope entry without normalizing it")
	return cmd
}

func writeJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = io.WriteString(w, strings.TrimRight(string(data), "\n")+"\n")
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
