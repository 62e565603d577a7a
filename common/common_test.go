package common

import (
	"context"
	"errors"
	"testing"

	"github.com/utpal74/ai-task-scheduler/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic))
	return logger.WithLogger(context.Background(), log), logs
}

func TestFailOnErrorNil(t *testing.T) {
	ctx, logs := observed()
	FailOnError(ctx, "bootstrap", nil)
	if logs.Len() != 0 {
		t.Errorf("expected no log entries, got %d", logs.Len())
	}
}

func TestFailOnErrorLogsStep(t *testing.T) {
	ctx, logs := observed()
	defer func() {
		if recover() == nil {
			t.Fatal("expected fatal hook to panic")
		}
		entries := logs.All()
		if len(entries) != 1 || entries[0].Level != zapcore.FatalLevel {
			t.Fatalf("unexpected entries %+v", entries)
		}
		fields := entries[0].ContextMap()
		if fields["step"] != "listen" || fields["addr"] != ":3000" || fields["error"] != "address in use" {
			t.Errorf("unexpected fields %v", fields)
		}
	}()
	FailOnError(ctx, "listen", errors.New("address in use"), zap.String("addr", ":3000"))
}
