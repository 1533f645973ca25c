package logger

import "log/slog"

// Interface is the logger handed to repositories, use cases and handlers.
// The w-suffixed methods take alternating keys and values.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	With(args ...any) Interface
	Named(component string) Interface
}

type adapter struct {
	*slog.Logger
}

// NewLogger wraps the process logger built by Init.
func NewLogger() Interface {
	return adapter{Get()}
}

func NewLoggerWithSlog(l *slog.Logger) Interface {
	return adapter{l}
}

func (a adapter) Debugw(msg string, kv ...any) { a.Logger.Debug(msg, kv...) }
func (a adapter) Infow(msg string, kv ...any)  { a.Logger.Info(msg, kv...) }
func (a adapter) Warnw(msg string, kv ...any)  { a.Logger.Warn(msg, kv...) }
func (a adapter) Errorw(msg string, kv ...any) { a.Logger.Error(msg, kv...) }

func (a adapter) With(args ...any) Interface {
	return adapter{a.Logger.With(args...)}
}

// Named tags every record with a component, matching WithComponent.
func (a adapter) Named(component string) Interface {
	return adapter{a.Logger.With("component", component)}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Interface {
	return nop{}
}

type nop struct{}

func (nop) Debug(string, ...any)     {}
func (nop) Info(string, ...any)      {}
func (nop) Warn(string, ...any)      {}
func (nop) Error(string, ...any)     {}
func (nop) Debugw(string, ...any)    {}
func (nop) Infow(string, ...any)     {}
func (nop) Warnw(string, ...any)     {}
func (nop) Errorw(string, ...any)    {}
func (n nop) With(...any) Interface  { return n }
func (n nop) Named(string) Interface { return n }
