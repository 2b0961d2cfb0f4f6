package main

import (
	"time"

	"go.uber.org/zap"
)

// logNotification reports client events through zap.
type logNotification struct {
	logger *zap.Logger
}

func (n logNotification) TokenIssued(scheme string) {
	n.logger.Debug("gateway credential issued", zap.String("scheme", scheme))
}

func (n logNotification) TokenExpired(expiredAt time.Time) {
	n.logger.Warn("gateway token has expired, requests will likely be rejected", zap.Time("expired_at", expiredAt))
}

func (n logNotification) RequestCompleted(endpoint string, status int, elapsed time.Duration) {
	n.logger.Debug("gateway request completed",
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

func (n logNotification) RequestFailed(endpoint string, err error) {
	n.logger.Warn("gateway request failed", zap.String("endpoint", endpoint), zap.Error(err))
}
