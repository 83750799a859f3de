package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tagscrape/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "file output",
			cfg:     &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "tagscrape.log")},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"verbose", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, zerolog.WarnLevel)

	log.Info("hidden")
	log.Warn("shown")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "shown")
	assert.Contains(t, output, `"app":"tagscrape"`)
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, zerolog.DebugLevel)

	log.
		WithField("tag", "removal").
		WithFields(map[string]interface{}{
			"page":  2,
			"cards": 175,
		}).
		Info("page fetched")

	output := buf.String()
	assert.Contains(t, output, "page fetched")
	assert.Contains(t, output, `"tag":"removal"`)
	assert.Contains(t, output, `"page":2`)
	assert.Contains(t, output, `"cards":175`)
}

func TestWithFieldsDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newWithWriter(&buf, zerolog.DebugLevel)

	parent.WithField("tag", "ramp").Info("child")
	buf.Reset()
	parent.Info("parent")

	assert.NotContains(t, buf.String(), `"tag"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, zerolog.DebugLevel)

	if log.WithError(nil) != log {
		t.Error("WithError(nil) should return the same logger")
	}

	log.WithError(errors.New("connection reset")).Error("request failed")

	output := buf.String()
	assert.Contains(t, output, "request failed")
	assert.Contains(t, output, "connection reset")
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, zerolog.DebugLevel)

	log.InfoWithFields("all types", map[string]interface{}{
		"string":   "otag",
		"int":      123,
		"int64":    int64(456),
		"float":    3.5,
		"bool":     true,
		"time":     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"duration": 5 * time.Second,
		"labels":   []string{"draw", "ramp"},
		"custom":   struct{ Name string }{Name: "test"},
	})

	output := buf.String()
	assert.Contains(t, output, `"labels":["draw","ramp"]`)
	assert.Contains(t, output, `"bool":true`)
}

func TestGlobalLogger(t *testing.T) {
	err := Initialize(&config.LoggingConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer SetLogger(nil)

	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil")
	}

	test := NewTestLogger()
	SetLogger(test)

	LogRateLimit("https://api.scryfall.com/cards/search", 2, 2*time.Second)
	LogTagProgress(GetLogger(), 5, 10, 1234)
	LogComponentStart("scraper", map[string]interface{}{"tags": 10})
	LogComponentStop("scraper", "completed")

	warnings := test.GetMessagesByLevel("WARN")
	if assert.Len(t, warnings, 1) {
		assert.Equal(t, 2, warnings[0].Fields["attempt"])
	}
	assert.True(t, test.HasMessage("Build progress"))
	assert.True(t, test.HasMessage("Component stopped"))
	assert.False(t, test.HasError())
}

func TestLogTagProgressUsesGivenLogger(t *testing.T) {
	global := NewTestLogger()
	SetLogger(global)
	defer SetLogger(nil)

	local := NewTestLogger()
	LogTagProgress(local, 1, 4, 10)

	assert.True(t, local.HasMessage("Build progress"))
	assert.False(t, global.HasMessage("Build progress"))
	if msgs := local.GetMessagesByLevel("INFO"); assert.Len(t, msgs, 1) {
		assert.Equal(t, "25.0%", msgs[0].Fields["percentage"])
	}
}

func TestLogRequestLevels(t *testing.T) {
	test := NewTestLogger()
	SetLogger(test)
	defer SetLogger(nil)

	LogRequest("u", 200, time.Millisecond)
	LogRequest("u", 404, time.Millisecond)
	LogRequest("u", 403, time.Millisecond)
	LogRequest("u", 500, time.Millisecond)

	assert.Len(t, test.GetMessagesByLevel("DEBUG"), 2)
	assert.Len(t, test.GetMessagesByLevel("WARN"), 1)
	assert.Len(t, test.GetMessagesByLevel("ERROR"), 1)
}

func TestTestLoggerSharesBuffer(t *testing.T) {
	test := NewTestLogger()
	child := test.WithField("tag", "draw")
	child.Info("from child")
	test.Info("from parent")

	messages := test.GetMessages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	assert.Equal(t, "draw", messages[0].Fields["tag"])
	assert.NotContains(t, messages[1].Fields, "tag")

	test.Clear()
	assert.Empty(t, test.GetMessages())
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.WithField("k", "v").WithError(errors.New("x")).Error("nothing")
	assert.NotNil(t, log.GetZerolog())
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.WithField("tag", "ramp").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"tag":"ramp"`)
	assert.Contains(t, out, `"message":"shown"`)

	_, err = NewWithWriter(&buf, "loud")
	assert.Error(t, err)
}
