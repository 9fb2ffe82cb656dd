package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldSession    = "session_id"
	FieldProfession = "profession_id"
	FieldPosition   = "position_id"
)

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// stringFields turns key/value pairs into zap fields. Values are trimmed and
// empty ones are dropped.
func stringFields(kv ...string) []zap.Field {
	result := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		value := strings.TrimSpace(kv[i+1])
		if value == "" {
			continue
		}
		result = append(result, zap.String(kv[i], value))
	}
	return result
}

// WithFields attaches fields to logger; a nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields describes the completion provider and model.
func CommonFields(provider, model string) []zap.Field {
	return stringFields(FieldProvider, provider, FieldModel, model)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// SelectionFields describes a profession/position pair. Empty ids are omitted.
func SelectionFields(professionID, positionID string) []zap.Field {
	return stringFields(FieldProfession, professionID, FieldPosition, positionID)
}

func WithSession(logger *zap.Logger, sessionID string) *zap.Logger {
	return WithFields(logger, stringFields(FieldSession, sessionID)...)
}
