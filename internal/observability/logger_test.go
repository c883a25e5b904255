package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &zaptest.Buffer{}
	Initialize(Config{Level: "info", Format: "json", ServiceName: "kbopt-test"}, buf)

	logger := GetLogger()
	logger.Warn("optimization stalled", zap.String("run_id", "run-1"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.Lines()[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "kbopt-test", entry["logger"])
	assert.Equal(t, "optimization stalled", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &zaptest.Buffer{}
	Initialize(Config{Level: "info", Format: "json", ServiceName: "first"}, buf)
	first := GetLogger()

	Initialize(Config{Level: "debug", Format: "json", ServiceName: "second"}, buf)
	second := GetLogger()

	assert.Same(t, first, second)
}

func TestInitializeWritesLogFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logFile := filepath.Join(t.TempDir(), "kbopt.log")
	Initialize(Config{Level: "debug", Format: "json", LogFile: logFile, MaxSize: 1}, zapcore.AddSync(&zaptest.Buffer{}))

	logger := GetLogger()
	logger.Error("this should go to the file")
	Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "this should go to the file")
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
}
