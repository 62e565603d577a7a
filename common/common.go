package common

import (
	"context"

	"github.com/utpal74/ai-task-scheduler/logger"
	"go.uber.org/zap"
)

// FailOnError stops the process when a lifecycle step (bootstrap, listen,
// shutdown) fails. A nil error is a no-op.
func FailOnError(ctx context.Context, step string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	fields = append(fields, zap.String("step", step), zap.Error(err))
	logger.FromCtx(ctx).Fatal("scheduler cannot continue", fields...)
}
