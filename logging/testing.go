package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

type testAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that writes through `tb.Log`, so that each line is tied to
// the test that produced it even when tests run in parallel. Lines use the same layout as a
// ConsoleAppender.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb}
}

// Write formats the entry and hands it to tb.Log.
func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	// keep the file:line prefix of tb.Log pointing past this method
	tapp.tb.Helper()
	line, err := formatEntry(entry, fields)
	tapp.tb.Log(line)
	return err
}

// Sync is a no-op.
func (tapp *testAppender) Sync() error {
	return nil
}
