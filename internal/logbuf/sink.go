package logbuf

import "go.uber.org/zap"

// ZapSink mirrors entries to a zap logger at the matching level.
type ZapSink struct {
	Logger *zap.Logger
}

func (s ZapSink) Write(e Entry) {
	lg := s.Logger
	if lg == nil {
		lg = zap.L()
	}
	fields := []zap.Field{
		zap.String("module", e.Module),
		zap.Uint64("seq", e.Seq),
	}
	if len(e.Data) > 0 {
		fields = append(fields, zap.Any("data", e.Data))
	}
	if e.Error != "" {
		fields = append(fields, zap.String("error", e.Error))
	}

	switch e.Level {
	case LevelDebug:
		lg.Debug(e.Message, fields...)
	case LevelWarn:
		lg.Warn(e.Message, fields...)
	case LevelError:
		lg.Error(e.Message, fields...)
	default:
		lg.Info(e.Message, fields...)
	}
}
