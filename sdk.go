// sdk.go
// ------
// The sdk.go file contains the core PulseBridge struct and its methods.
// This is the main entry point of the SDK for users.
//
// Key functionalities include:
// - Initializing the SDK with NewPulseBridge()
// - Registering providers with RegisterProvider()
// - Making requests via sdk.Request()
// - Retrieving the rate limit info the providers last reported
//
// The PulseBridge hands every request to a RequestExecutor, which dispatches it once and
// translates failures into a RequestError, so all providers fail the same way.
package pulsebridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type PulseBridge struct {
	mu          sync.Mutex
	providers   map[string]ProviderAdapter
	configs     map[string]*ProviderConfig
	rateLimiter *RateLimiter
	executor    *RequestExecutor
	log         *logrus.Logger
}

func NewPulseBridge() *PulseBridge {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	sdk := &PulseBridge{
		providers:   make(map[string]ProviderAdapter),
		configs:     make(map[string]*ProviderConfig),
		rateLimiter: NewRateLimiter(),
		log:         log,
	}
	sdk.executor = NewRequestExecutor(sdk)
	return sdk
}

// SetDebug enables or disables debug logging for the SDK.
func (sdk *PulseBridge) SetDebug(enabled bool) {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	if enabled {
		sdk.log.SetLevel(logrus.DebugLevel)
	} else {
		sdk.log.SetLevel(logrus.WarnLevel)
	}
}

// SetLogger replaces the SDK logger.
func (sdk *PulseBridge) SetLogger(log *logrus.Logger) {
	if log == nil {
		return
	}
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	sdk.log = log
}

func (sdk *PulseBridge) logger() *logrus.Logger {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	return sdk.log
}

// RegisterProvider associates a ProviderAdapter with a provider name and configuration.
func (sdk *PulseBridge) RegisterProvider(name string, adapter ProviderAdapter, config *ProviderConfig) {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	sdk.providers[name] = adapter
	sdk.configs[name] = config

	sdk.log.WithField("provider", name).Debugf("registered provider with config: %+v", config)
}

// Request resolves the descriptor and sends it to the specified provider.
// Any failure, including a non-2xx status, is returned as a *RequestError.
func (sdk *PulseBridge) Request(ctx context.Context, providerName string, desc RequestDescriptor) (*NormalizedResponse, error) {
	sdk.mu.Lock()
	adapter, ok := sdk.providers[providerName]
	sdk.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", providerName)
	}
	if desc == nil {
		return nil, fmt.Errorf("provider %q: nil request descriptor", providerName)
	}

	return sdk.executor.Execute(ctx, providerName, desc.Resolve(), adapter)
}

// getProviderConfig retrieves the ProviderConfig for a given provider, or a default if not found.
func (sdk *PulseBridge) getProviderConfig(providerName string) *ProviderConfig {
	sdk.mu.Lock()
	defer sdk.mu.Unlock()

	config, ok := sdk.configs[providerName]
	if !ok || config == nil {
		return &ProviderConfig{}
	}

	return config
}

// GetRateLimitInfo returns the last rate limit info a provider reported for a call type.
func (sdk *PulseBridge) GetRateLimitInfo(providerName, callType string) *NormalizedRateLimitInfo {
	return sdk.rateLimiter.GetRateLimitInfo(providerName, callType)
}
