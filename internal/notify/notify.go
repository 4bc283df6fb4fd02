package notify

import (
	"arenax-client/internal/logger"
)

// Notifier is the user-facing notification surface. The web client shows
// these as transient toasts; the CLI logs them at matching levels.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

type logNotifier struct{}

// NewLog returns a Notifier that writes through the global logger.
func NewLog() Notifier {
	return logNotifier{}
}

func (logNotifier) Success(msg string) { logger.L().Info(msg) }
func (logNotifier) Info(msg string)    { logger.L().Info(msg) }
func (logNotifier) Error(msg string)   { logger.L().Error(msg) }
