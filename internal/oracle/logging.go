package oracle

import (
	"context"
	"stem_tutor_backend/internal/model"
	"stem_tutor_backend/pkg/logger"
	"stem_tutor_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// Recorder persists one row per oracle call.
type Recorder interface {
	Record(ctx context.Context, req *model.OracleRequest) error
}

type loggingOracle struct {
	inner    Oracle
	recorder Recorder
}

// WithLogging wraps o so every call is logged, counted in prometheus and,
// when recorder is non-nil, stored. Recording failures never fail the call.
func WithLogging(o Oracle, recorder Recorder) Oracle {
	return &loggingOracle{inner: o, recorder: recorder}
}

func (l *loggingOracle) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	text, err := l.inner.Complete(ctx, prompt, maxTokens)

	latency := time.Since(start)
	outcome := "success"
	if err != nil {
		outcome = "error"
		logger.Log.Warn("oracle call failed",
			zap.String("oracle", l.inner.Name()),
			zap.String("purpose", purpose),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	} else {
		logger.Log.Debug("oracle call",
			zap.String("oracle", l.inner.Name()),
			zap.String("purpose", purpose),
			zap.Duration("latency", latency),
			zap.Int("outputChars", len(text)),
		)
	}

	monitoring.OracleRequests.WithLabelValues(l.inner.Name(), purpose, outcome).Inc()
	monitoring.OracleDuration.WithLabelValues(l.inner.Name(), purpose).Observe(latency.Seconds())

	if l.recorder != nil {
		row := &model.OracleRequest{
			Provider:    l.inner.Name(),
			Purpose:     purpose,
			LatencyMs:   latency.Milliseconds(),
			Success:     err == nil,
			PromptChars: len(prompt),
			OutputChars: len(text),
		}
		if err != nil {
			row.ErrorMessage = err.Error()
		}
		// 使用独立 context，请求超时不影响记录
		if recErr := l.recorder.Record(context.WithoutCancel(ctx), row); recErr != nil {
			logger.Log.Warn("failed to record oracle request", zap.Error(recErr))
		}
	}

	return text, err
}

func (l *loggingOracle) Name() string {
	return l.inner.Name()
}
