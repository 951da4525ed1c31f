package reporting

import (
	"context"

	"giveaway-bot-backend/internal/common/logger"
)

// Notifier receives coarse-grained signals that platform statistics changed
// (new user, new giveaway, new channel). Implementations may push the updated
// numbers anywhere; the services only emit the signal.
type Notifier interface {
	StatsChanged(ctx context.Context)
}

// LogNotifier is the default sink: it records the signal in the service log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) StatsChanged(ctx context.Context) {
	logger.Debug().Msg("platform statistics changed")
}
