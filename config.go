// config.go
// ----------
// This file defines the ProviderConfig structure, which allows per-provider customization
// of the headers sent with every request and of the per-call deadline.
package pulsebridge

import "time"

// ProviderConfig allows per-provider customization of request defaults.
type ProviderConfig struct {
	DefaultHeaders map[string]string // Merged into every request; descriptor headers win
	Timeout        time.Duration     // Per-call deadline applied to the context; zero leaves the adapter's client timeout as the only bound
}
