// Package middleware provides interceptors for the synthesis runtime.
package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/broady/declgen"
	"github.com/broady/declgen/ir"
)

// LoggingInterceptor creates an interceptor that logs capability applications
// using zap. Applied capabilities are logged at debug level, inapplicable ones
// at info level and failures at error level.
func LoggingInterceptor(logger *zap.Logger) declgen.Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx *declgen.Context, d ir.TypeDeclaration, next declgen.StepFunc) (ir.TypeDeclaration, error) {
		start := time.Now()
		fields := []zap.Field{
			zap.String("type", ctx.TypeName()),
			zap.Stringer("capability", ctx.Capability()),
			zap.Stringer("strategy", ctx.Backing().Strategy()),
		}

		out, err := next(ctx, d)
		fields = append(fields, zap.Duration("duration", time.Since(start)))

		if err != nil {
			logger.Error("capability failed", append(fields, zap.Error(err))...)
			return out, err
		}

		added := len(out.Members) - len(d.Members)
		if added == 0 && len(out.Interfaces) == len(d.Interfaces) && len(out.Nested) == len(d.Nested) {
			logger.Info("capability skipped", fields...)
			return out, nil
		}
		logger.Debug("capability applied", append(fields,
			zap.Int("members_added", added),
			zap.Int("interfaces_added", len(out.Interfaces)-len(d.Interfaces)),
		)...)
		return out, nil
	}
}
