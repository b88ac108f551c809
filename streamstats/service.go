// Package streamstats is the metrics gateway client for the streaming analytics
// services: session lists and per-session time series from the analytics API,
// and live pulse snapshots from the stats API.
package streamstats

import (
	"context"
	"encoding/json"

	"golang.org/x/oauth2"

	pulsebridge "github.com/opengovern/stream-pulse-bridge"
	"github.com/opengovern/stream-pulse-bridge/adapters"
	"github.com/opengovern/stream-pulse-bridge/config"
	"github.com/opengovern/stream-pulse-bridge/utils"
)

const (
	ProviderAnalytics = "analytics"
	ProviderStats     = "stats"

	DefaultLegacyPulseHost = "stats.castr.io"
)

// Options configures a Service built on an existing bridge.
type Options struct {
	AnalyticsBase   string // root for session queries
	StatsBase       string // prefix for pulse queries; the stream key is appended verbatim
	LegacyPulseHost string // pulse envelopes are normalized only for URIs containing this host
}

// Service issues the three read-only metrics queries. It holds no mutable
// state of its own and is safe for concurrent use.
type Service struct {
	bridge        *pulsebridge.PulseBridge
	analyticsBase string
	statsBase     string
	legacyHost    string
}

// NewWithBridge builds a Service on top of bridge, which must have the
// ProviderAnalytics and ProviderStats providers registered.
func NewWithBridge(bridge *pulsebridge.PulseBridge, opts Options) *Service {
	if opts.LegacyPulseHost == "" {
		opts.LegacyPulseHost = DefaultLegacyPulseHost
	}
	return &Service{
		bridge:        bridge,
		analyticsBase: opts.AnalyticsBase,
		statsBase:     opts.StatsBase,
		legacyHost:    opts.LegacyPulseHost,
	}
}

// New builds the default bridge from cfg: one HTTP adapter per service,
// sharing the configured timeout and credentials.
func New(cfg *config.Config) (*Service, error) {
	ts, err := tokenSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := []adapters.HTTPAdapterOption{adapters.WithTimeout(cfg.Timeout)}
	if ts != nil {
		opts = append(opts, adapters.WithTokenSource(ts))
	}

	bridge := pulsebridge.NewPulseBridge()
	bridge.SetDebug(cfg.Debug)
	bridge.RegisterProvider(ProviderAnalytics, adapters.NewHTTPAdapter(opts...), &pulsebridge.ProviderConfig{})
	bridge.RegisterProvider(ProviderStats, adapters.NewHTTPAdapter(opts...), &pulsebridge.ProviderConfig{})

	return NewWithBridge(bridge, Options{
		AnalyticsBase:   cfg.AnalyticsAPI,
		StatsBase:       cfg.StatsAPI,
		LegacyPulseHost: cfg.LegacyPulseHost,
	}), nil
}

// Bridge exposes the underlying bridge, e.g. for rate limit info.
func (s *Service) Bridge() *pulsebridge.PulseBridge {
	return s.bridge
}

func tokenSource(cfg *config.Config) (oauth2.TokenSource, error) {
	switch {
	case cfg.APIToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"}), nil
	case cfg.TokenSecret != "":
		return utils.NewServiceTokenSource(utils.ServiceTokenConfig{
			Secret:  []byte(cfg.TokenSecret),
			Subject: cfg.TokenSubject,
			TTL:     cfg.TokenTTL,
		})
	default:
		return nil, nil
	}
}

// fetch dispatches a GET for uri and returns only the response body.
func (s *Service) fetch(ctx context.Context, provider, uri string) (json.RawMessage, error) {
	resp, err := s.bridge.Request(ctx, provider, pulsebridge.Path(uri))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Data), nil
}
