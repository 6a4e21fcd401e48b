package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName is the instrumentation scope for the OTel log bridge.
const ServiceName = "racesim"

// stdout is the console destination; swapped out in tests.
var stdout io.Writer = os.Stdout

// SlogManager owns the process logger and the optional OTel log provider.
type SlogManager struct {
	logger      *slog.Logger
	handler     slog.Handler
	logProvider *sdklog.LoggerProvider
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup builds the logger. Records go to file when one is given and to the
// console otherwise; a non-nil provider adds the OTel bridge.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	opts := handlerOptions(parseLevel(level))
	m.logProvider = provider

	out := file
	if out == nil {
		out = stdout
	}
	handlers := []slog.Handler{slog.NewTextHandler(out, opts)}
	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider)))
	}

	m.handler = NewMultiHandler(handlers...)
	m.logger = slog.New(m.handler)
	m.logger.Info("Logging initialized", "level", parseLevel(level).String())
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Bind returns a logger that stamps every record with the attributes
// provider yields at the time of the call.
func (m *SlogManager) Bind(provider ContextProvider) *slog.Logger {
	h := m.handler
	if h == nil {
		h = slog.Default().Handler()
	}
	return slog.New(NewContextHandler(h, provider))
}

// Flush pushes buffered OTel records to the exporters.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}
