package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs a completed search request
func LogRequest(url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		GetLogger().DebugWithFields("Search request completed", fields)
	case statusCode == 404:
		GetLogger().DebugWithFields("Search returned no cards", fields)
	case statusCode >= 400 && statusCode < 500:
		GetLogger().WarnWithFields("Search request client error", fields)
	case statusCode >= 500:
		GetLogger().ErrorWithFields("Search request server error", fields)
	}
}

// LogRateLimit logs a 429 response and the delay before the next attempt
func LogRateLimit(url string, attempt int, wait time.Duration) {
	GetLogger().WithFields(map[string]interface{}{
		"url":     url,
		"attempt": attempt,
		"wait":    wait,
		"action":  "rate_limited",
	}).Warn("Rate limit reached, backing off")
}

// LogTagProgress logs how far a build run has come on l
func LogTagProgress(l Logger, processed, total, cards int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(processed) / float64(total) * 100
	}

	l.WithFields(map[string]interface{}{
		"processed":  processed,
		"total":      total,
		"cards":      cards,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Build progress")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	l := GetLogger().WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(component string, reason string) {
	GetLogger().WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
