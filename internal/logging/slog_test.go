package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func swapStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func TestSetup_FileOnly(t *testing.T) {
	console := swapStdout(t)

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(&file, "info", nil)
	m.Logger().Info("hello file")

	assert.Contains(t, file.String(), "hello file")
	assert.Contains(t, file.String(), "Logging initialized")
	assert.Empty(t, console.String())
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	console := swapStdout(t)

	m := NewSlogManager()
	m.Setup(nil, "info", nil)
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, tt.level, nil)

			m.Logger().Debug("debug msg")
			m.Logger().Info("info msg")

			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug msg")))
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info msg")))
		})
	}
}

func TestSetup_UTCTimestamps(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`, buf.String())
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	assert.Equal(t, slog.Default(), NewSlogManager().Logger())
}

func TestFlush(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))

	var buf bytes.Buffer
	m.Setup(&buf, "info", sdklog.NewLoggerProvider())
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

type fakeRace struct {
	name  string
	round int
}

func (f *fakeRace) Name() string { return f.name }
func (f *fakeRace) Round() int   { return f.round }

func TestBind_RaceContext(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	r := &fakeRace{name: "Monza", round: 1}
	logger := m.Bind(RaceContext(r))

	logger.Info("first")
	r.round = 4
	logger.Info("second")

	out := buf.String()
	assert.Contains(t, out, `msg=first race=Monza round=1`)
	assert.Contains(t, out, `msg=second race=Monza round=4`)
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	h := NewContextHandler(inner, func() []slog.Attr {
		return []slog.Attr{slog.Int("round", 2)}
	})

	assert.Same(t, h, h.WithGroup(""))

	slog.New(h.WithAttrs([]slog.Attr{slog.String("sink", "influx")})).Info("attrs")
	assert.Contains(t, buf.String(), "sink=influx")
	assert.Contains(t, buf.String(), "round=2")
}

func TestMultiHandler(t *testing.T) {
	t.Run("fans out", func(t *testing.T) {
		var b1, b2 bytes.Buffer
		multi := NewMultiHandler(slog.NewTextHandler(&b1, nil), nil, slog.NewTextHandler(&b2, nil))
		require.Len(t, multi.handlers, 2)

		slog.New(multi).Info("fanned out")

		assert.Contains(t, b1.String(), "fanned out")
		assert.Contains(t, b2.String(), "fanned out")
	})

	t.Run("enabled if any handler is", func(t *testing.T) {
		info := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
		debug := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

		assert.False(t, NewMultiHandler(info).Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, NewMultiHandler(info, debug).Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
	})

	t.Run("group", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))
		assert.Equal(t, multi, multi.WithGroup(""))

		slog.New(multi.WithGroup("lap")).Info("grouped", "time", 71.2)
		assert.Contains(t, buf.String(), "lap.time=71.2")
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(&errorHandler{}, slog.NewTextHandler(&buf, nil))

		slog.New(multi).Info("should reach spy")

		assert.Contains(t, buf.String(), "should reach spy")
	})
}

type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *errorHandler) Handle(context.Context, slog.Record) error {
	return errors.New("handler error")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}
