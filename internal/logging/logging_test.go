package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewFormatsPythonStyleRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zapcore.InfoLevel)

	logger.Info("tests/cases/no_return.py: Missing return annotation for function f1, line 1")
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	assert.Equal(t,
		"INFO:annotation_checker:tests/cases/no_return.py: Missing return annotation for function f1, line 1\n",
		buf.String())
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zapcore.DebugLevel)

	logger.Debug("Files: [a.py]")
	logger.Info("a.py: message")

	assert.Equal(t, "DEBUG:annotation_checker:Files: [a.py]\nINFO:annotation_checker:a.py: message\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw     string
		want    zapcore.Level
		wantErr bool
	}{
		{raw: "INFO", want: zapcore.InfoLevel},
		{raw: "info", want: zapcore.InfoLevel},
		{raw: "", want: zapcore.InfoLevel},
		{raw: "DEBUG", want: zapcore.DebugLevel},
		{raw: " debug ", want: zapcore.DebugLevel},
		{raw: "TRACE", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, "ParseLevel(%q)", tc.raw)
			continue
		}
		require.NoError(t, err, "ParseLevel(%q)", tc.raw)
		assert.Equal(t, tc.want, got, "ParseLevel(%q)", tc.raw)
	}
}
