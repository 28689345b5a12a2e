package logger

import (
	"time"

	"go.uber.org/zap"
)

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// Source is the form source the submission came from.
func Source(v string) zap.Field { return zap.String("form_source", v) }

// Email logs an already masked address. Never pass a raw address.
func Email(masked string) zap.Field { return zap.String("email", masked) }

func Provider(v string) zap.Field { return zap.String("provider", v) }

func Reason(v string) zap.Field { return zap.String("reason", v) }
