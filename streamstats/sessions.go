package streamstats

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultDaysOffset is used when GetSessionsList is called with a zero offset.
const DefaultDaysOffset = 360

// SessionsListURI builds the session list URI. The stream key is not validated
// or escaped.
func (s *Service) SessionsListURI(streamKey string, daysOffset int) string {
	if daysOffset == 0 {
		daysOffset = DefaultDaysOffset
	}
	return fmt.Sprintf("%s/api/session/%s/?metrics=1&day_offset=%d", s.analyticsBase, streamKey, daysOffset)
}

// SessionDataURI builds the session metrics URI, adding last_points when points is non-zero.
func (s *Service) SessionDataURI(sessionID string, points int) string {
	uri := fmt.Sprintf("%s/api/metrics/session/%s", s.analyticsBase, sessionID)
	if points != 0 {
		uri += fmt.Sprintf("?last_points=%d", points)
	}
	return uri
}

// GetSessionsList returns the sessions recorded for a stream over the last
// daysOffset days. The metrics flag is accepted for compatibility; the query
// always asks for metrics.
func (s *Service) GetSessionsList(ctx context.Context, streamKey string, daysOffset int, metrics bool) (json.RawMessage, error) {
	return s.fetch(ctx, ProviderAnalytics, s.SessionsListURI(streamKey, daysOffset))
}

// GetSessionData returns the time series of a single session.
func (s *Service) GetSessionData(ctx context.Context, sessionID string, points int) (json.RawMessage, error) {
	return s.fetch(ctx, ProviderAnalytics, s.SessionDataURI(sessionID, points))
}
