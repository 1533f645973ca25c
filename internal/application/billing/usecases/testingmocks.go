package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyAndParse(payload []byte, signatureHeader string) (billing.Event, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.Event), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	args := m.Called(ctx, eventID, eventType)
	return args.Error(0)
}

func (m *mockLedger) MarkFailed(ctx context.Context, eventID, eventType string, cause error) error {
	args := m.Called(ctx, eventID, eventType, cause)
	return args.Error(0)
}

type mockApplier struct {
	mock.Mock
}

func (m *mockApplier) Apply(ctx context.Context, event billing.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// passthroughTx runs fn directly on the caller's context.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockWebhookMetrics struct {
	mock.Mock
}

func (m *mockWebhookMetrics) WebhookProcessed(eventType, outcome string, elapsed time.Duration) {
	m.Called(eventType, outcome, elapsed)
}

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface {
	return m
}

func (m *mockLogger) Named(name string) logger.Interface {
	return m
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.Called(msg, keysAndValues)
}

func newQuietLogger() *mockLogger {
	l := new(mockLogger)
	l.On("Debugw", mock.Anything, mock.Anything).Return()
	l.On("Infow", mock.Anything, mock.Anything).Return()
	l.On("Warnw", mock.Anything, mock.Anything).Return()
	l.On("Errorw", mock.Anything, mock.Anything).Return()
	return l
}
