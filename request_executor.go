package pulsebridge

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RequestExecutor dispatches a resolved request exactly once and translates
// every failure into a *RequestError.
type RequestExecutor struct {
	sdk *PulseBridge
}

func NewRequestExecutor(sdk *PulseBridge) *RequestExecutor {
	return &RequestExecutor{sdk: sdk}
}

func (re *RequestExecutor) Execute(ctx context.Context, providerName string, req *NormalizedRequest, adapter ProviderAdapter) (*NormalizedResponse, error) {
	config := re.sdk.getProviderConfig(providerName)
	callType := adapter.IdentifyRequestType(req)

	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	for k, v := range config.DefaultHeaders {
		if _, ok := req.Headers[k]; !ok {
			req.Headers[k] = v
		}
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	log := re.sdk.logger().WithFields(logrus.Fields{
		"provider":  providerName,
		"call_type": callType,
		"url":       req.URL,
	})

	if delay := re.sdk.rateLimiter.DelayBeforeNextRequest(providerName, callType); delay > 0 {
		log.WithField("reset_in", delay).Debug("last known rate limit budget is exhausted")
	}

	log.Debug("sending request")
	resp, err := adapter.ExecuteRequest(ctx, req)
	if err != nil {
		log.WithError(err).Debug("request failed before a response was received")
		return nil, &RequestError{
			Provider: providerName,
			URL:      req.URL,
			cause:    errors.Wrapf(err, "%s %s", req.Method, req.URL),
		}
	}

	if rateInfo, parseErr := adapter.ParseRateLimitInfo(resp); parseErr == nil && rateInfo != nil {
		re.sdk.rateLimiter.UpdateRateLimits(providerName, callType, rateInfo)
	}

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("request returned an error status")
		return nil, &RequestError{
			Provider:   providerName,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Payload:    errorPayload(resp.Data),
			cause:      errors.Errorf("%s %s: unexpected status %d", req.Method, req.URL, resp.StatusCode),
		}
	}

	log.Debug("request succeeded")
	return resp, nil
}
