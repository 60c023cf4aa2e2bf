package rag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/sozoku/pkg/utils"
	"go.uber.org/zap"
)

// trace logs the request lifecycle:
// received, retrieved, filtered, prompted, generating, then complete or failed.
type trace struct {
	logger *zap.Logger
	start  time.Time
}

func (s *Service) trace(query string) *trace {
	t := &trace{
		logger: s.logger.With(zap.String("request_id", uuid.NewString())),
		start:  time.Now(),
	}
	t.state("received", zap.String("query", utils.Truncate(query, 80)))
	return t
}

func (t *trace) state(name string, fields ...zap.Field) {
	t.logger.Debug("rag state", append([]zap.Field{zap.String("state", name)}, fields...)...)
}

func (t *trace) complete(fields ...zap.Field) {
	t.state("complete", append(fields, zap.Duration("elapsed", time.Since(t.start)))...)
}

func (t *trace) fail(ctx context.Context, err error) error {
	err = asTimeout(ctx, err)
	t.logger.Warn("rag request failed",
		zap.String("state", "failed"),
		zap.Duration("elapsed", time.Since(t.start)),
		zap.Error(err))
	return err
}
