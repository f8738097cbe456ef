package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, dir string, cat Category) string {
	t.Helper()
	name := time.Now().Format("2006-01-02") + "_" + string(cat) + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestInitialize_DebugModeOff(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Options{DebugMode: false}))
	defer CloseAll()

	Analysis("should not be written")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "logs dir must not be created when debug mode is off")
	assert.False(t, Enabled())
}

func TestInitialize_RequiresDir(t *testing.T) {
	assert.Error(t, Initialize("", Options{}))
}

func TestCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "debug"}))
	defer CloseAll()

	API("request model=%s", "openai")
	UploadDebug("validated %s", "train.py")
	StoreError("insert failed: %v", "boom")

	assert.Contains(t, readLog(t, dir, CategoryAPI), "[INFO] request model=openai")
	assert.Contains(t, readLog(t, dir, CategoryUpload), "[DEBUG] validated train.py")
	assert.Contains(t, readLog(t, dir, CategoryStore), "[ERROR] insert failed: boom")
	assert.Contains(t, readLog(t, dir, CategoryBoot), "logging initialized")
}

func TestCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"ui": false},
	}))
	defer CloseAll()

	assert.False(t, IsCategoryEnabled(CategoryUI))
	assert.True(t, IsCategoryEnabled(CategorySession), "unlisted categories default to enabled")

	UI("hidden")
	_, err := os.Stat(filepath.Join(dir, time.Now().Format("2006-01-02")+"_ui.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "warn"}))
	defer CloseAll()

	Session("info line")
	SessionDebug("debug line")
	SessionError("error line")

	content := readLog(t, dir, CategorySession)
	assert.NotContains(t, content, "info line")
	assert.NotContains(t, content, "debug line")
	assert.Contains(t, content, "error line")
}

func TestJSONFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "debug", JSONFormat: true}))
	defer CloseAll()

	Get(CategoryAnalysis).Event(LevelInfo, "analyzed", Fields{"keywords": 3})

	content := readLog(t, dir, CategoryAnalysis)
	line := content[strings.Index(content, "{"):]
	line = strings.TrimSpace(strings.SplitN(line, "\n", 2)[0])

	var entry jsonLine
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "analysis", entry.Category)
	assert.Equal(t, "analyzed", entry.Message)
	assert.EqualValues(t, 3, entry.Fields["keywords"])
}

func TestEvent_TextFieldsSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Level: "info"}))
	defer CloseAll()

	Get(CategoryUI).Event(LevelInfo, "interaction", Fields{"mode": "text", "ok": true})
	Get(CategoryUI).Event(LevelDebug, "filtered", nil)

	content := readLog(t, dir, CategoryUI)
	assert.Contains(t, content, "[INFO] interaction | mode=text ok=true")
	assert.NotContains(t, content, "filtered")
}

func TestInitialize_ReportsDisabledCategories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, Options{DebugMode: true, Categories: map[string]bool{"ui": false, "store": false}}))
	defer CloseAll()

	assert.True(t, Enabled())
	assert.Equal(t, dir, Dir())
	assert.Contains(t, readLog(t, dir, CategoryBoot), "disabled=[store ui]")
}

func TestTimer(t *testing.T) {
	require.NoError(t, Initialize(t.TempDir(), Options{}))
	defer CloseAll()

	timer := StartTimer(CategoryAPI, "noop")
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))
	assert.Equal(t, "WARN", ParseLevel("warning").String())
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.GreaterOrEqual(t, StartTimer(CategoryAPI, "noop").StopWithThreshold(time.Hour), time.Duration(0))
}
