package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottostat/internal/config"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		Games: []config.GameConfig{
			{Name: "powerball", MaxNumber: 69, DoublePlay: true, File: "powerball.csv"},
			{Name: "lotto", MaxNumber: 38, File: "lotto.csv"},
		},
		Analysis: config.AnalysisConfig{ComboSizes: []int{2, 3, 4, 5}, TopK: 5, HotWindow: 5, ColdThreshold: 3, NewestFirst: true},
		Wheel:    config.WheelConfig{PickCount: 10},
		Report:   config.ReportConfig{ExportFormat: "csv"},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func testApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := testConfig()
	store := storage.New()
	for _, g := range cfg.Games {
		require.NoError(t, store.Register(g.Model()))
	}
	require.NoError(t, store.Replace(models.NewHistory("powerball", models.NewestFirst, []models.DrawRecord{
		{Date: "3/2/2024", Numbers: []int{5, 12, 19, 33, 41}, Special: "10"},
		{Date: "3/2/2024", Numbers: []int{5, 12, 20, 34, 42}, Secondary: true},
		{Date: "2/28/2024", Numbers: []int{1, 5, 12, 19, 60}, Special: "3"},
	})))

	var out bytes.Buffer
	a, err := newApp(cfg, store, "powerball", &out)
	require.NoError(t, err)
	return a, &out
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "3,9,17", want: []int{3, 9, 17}},
		{input: " 3 - 9  17 ", want: []int{3, 9, 17}},
		{input: "", want: []int{}},
		{input: "3,x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseNumbers(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, sizes)

	_, err = parseSizes("1,2")
	assert.Error(t, err)
	_, err = parseSizes("6")
	assert.Error(t, err)
}

func TestExecute_SelectionCommands(t *testing.T) {
	a, out := testApp(t)

	require.NoError(t, a.execute("set 5,12,19"))
	report := out.String()
	assert.Contains(t, report, "Selection: 5-12-19")
	assert.Contains(t, report, "3 matches (2 draws)")
	assert.Contains(t, report, "5* 12* 19* 33 41  [10]")
	assert.Contains(t, report, "3/2/2024 (Secondary)")
	assert.Contains(t, report, "Top 2-number combinations")

	out.Reset()
	require.NoError(t, a.execute("toggle 19"))
	assert.Contains(t, out.String(), "Selection: 5-12")
	assert.NotContains(t, out.String(), "Top 3-number combinations")

	out.Reset()
	require.NoError(t, a.execute("clear"))
	assert.Contains(t, out.String(), "Selection: none")
	assert.Contains(t, out.String(), "Select at least two numbers")

	assert.Error(t, a.execute("toggle 70"))
	assert.Error(t, a.execute("toggle"))
	assert.Error(t, a.execute("set 1,1"))
	assert.Error(t, a.execute("frobnicate"))
	assert.NoError(t, a.execute("   "))
	assert.True(t, errors.Is(a.execute("quit"), errQuit))
}

func TestExecute_ToggleIsAllOrNothing(t *testing.T) {
	a, _ := testApp(t)
	require.NoError(t, a.execute("set 5,12"))

	assert.Error(t, a.execute("toggle 19 12 70"))
	assert.Equal(t, []int{5, 12}, a.sess.Selection().Numbers())

	require.NoError(t, a.execute("toggle 19 12"))
	assert.Equal(t, []int{5, 19}, a.sess.Selection().Numbers())
}

func TestExecute_GameSwitch(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.execute("set 5,12"))

	out.Reset()
	require.NoError(t, a.execute("game lotto"))
	assert.Contains(t, out.String(), "Game: lotto")
	assert.Contains(t, out.String(), "not loaded")
	assert.Equal(t, 0, a.sess.Selection().Len())

	assert.Error(t, a.execute("game keno"))
	assert.Error(t, a.execute("game"))
}

func TestExecute_WheelAndExport(t *testing.T) {
	a, out := testApp(t)
	dir := t.TempDir()
	a.exportPath = filepath.Join(dir, "report.csv")

	require.NoError(t, a.execute("wheel 1,2,3,4,5,6,7,8,9,10"))
	assert.Contains(t, out.String(), "Wheel (12 tickets)")
	assert.Contains(t, out.String(), " 1. 1-2-3-4-5")
	_, err := os.Stat(filepath.Join(dir, "report_wheel.csv"))
	assert.NoError(t, err)

	assert.Error(t, a.execute("wheel 1,2,3"))

	require.NoError(t, a.execute("set 5,12"))
	require.NoError(t, a.execute("export"))
	for _, name := range []string{"report_numbers.csv", "report_matches.csv", "report_combos.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	assert.Error(t, a.execute("notify"), "telegram is not configured")
}

func TestRunOnce_Chart(t *testing.T) {
	a, out := testApp(t)
	a.chartPath = filepath.Join(t.TempDir(), "frequency.html")
	_, err := a.sess.Set([]int{5, 12})
	require.NoError(t, err)

	require.NoError(t, runOnce(a, false))
	assert.True(t, strings.Contains(out.String(), "2 matches"))

	info, err := os.Stat(a.chartPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	assert.Error(t, runOnce(a, true), "notify without a client fails")
}
