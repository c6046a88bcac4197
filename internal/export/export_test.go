package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/session"
	"github.com/rewired-gh/lottostat/internal/storage"
	"github.com/rewired-gh/lottostat/internal/wheel"
)

type TestStruct struct {
	ID        int       `csv:"id"`
	Name      string    `csv:"name"`
	Numbers   []int     `csv:"numbers"`
	Active    bool      `csv:"active"`
	CreatedAt time.Time `csv:"created_at"`
	Pointer   *string   `csv:"pointer"`
	Hidden    string    `csv:"-"`
}

func stringPtr(s string) *string {
	return &s
}

func TestExportToWriterCSV(t *testing.T) {
	data := []TestStruct{
		{ID: 1, Name: "Test1", Numbers: []int{3, 9, 17}, Active: true, CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), Pointer: stringPtr("x"), Hidden: "secret"},
		{ID: 2, Name: "Test2", Numbers: []int{}, CreatedAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, data, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "id,name,numbers,active,created_at,pointer" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[1] != "1,Test1,3-9-17,true,2024-01-01T12:00:00Z,x" {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
	if lines[2] != "2,Test2,,false,2024-01-02T12:00:00Z," {
		t.Errorf("Unexpected second row: %s", lines[2])
	}
}

func TestExportToWriterCSV_EmptyAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, []ComboRow{}, false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "k,rank,combination,count" {
		t.Errorf("Expected header only, got %q", got)
	}

	if err := ExportToWriter(&buf, FormatCSV, ComboRow{}, false); err == nil {
		t.Error("Expected error for non-slice data")
	}
	if err := ExportToWriter(&buf, FormatCSV, []int{1, 2}, false); err == nil {
		t.Error("Expected error for slice of non-structs")
	}
	if err := ExportToWriter(&buf, Format("xml"), []ComboRow{}, false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestExportOverwrite(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "nested", "tickets.csv")
	tickets, err := wheel.Generate([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, wheel.DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	exporter := NewExporter(Options{Format: FormatCSV, FilePath: filePath})
	if err := exporter.ExportTickets(tickets); err != nil {
		t.Fatalf("ExportTickets failed: %v", err)
	}
	if err := exporter.ExportTickets(tickets); err == nil {
		t.Error("Expected error when file exists and overwrite is disabled")
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 13 {
		t.Fatalf("Expected header and 12 tickets, got %d lines", len(lines))
	}
	if lines[1] != "1,1-2-3-4-5" {
		t.Errorf("Unexpected first ticket: %s", lines[1])
	}

	exporter = NewExporter(Options{Format: FormatCSV, FilePath: filePath, Overwrite: true})
	if err := exporter.ExportTickets(tickets[:1]); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON "); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %s, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for xml")
	}
}

func testReport(t *testing.T) *session.Report {
	t.Helper()
	game := models.Game{Name: "powerball", MaxNumber: 12}
	store := storage.New()
	if err := store.Register(game); err != nil {
		t.Fatal(err)
	}
	err := store.Replace(models.NewHistory("powerball", models.NewestFirst, []models.DrawRecord{
		{Date: "1/2", Numbers: []int{2, 3, 9, 10, 11}, Special: "4"},
		{Date: "1/1", Numbers: []int{1, 2, 3, 4, 5}},
	}))
	if err != nil {
		t.Fatal(err)
	}

	s, err := session.New(game)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Set([]int{2, 3, 9}); err != nil {
		t.Fatal(err)
	}
	report, err := s.Analyze(store, session.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return report
}

func TestRows(t *testing.T) {
	report := testReport(t)

	numbers := NumberRows(report.Stats, report.Heat, models.NewestFirst)
	if len(numbers) != 12 {
		t.Fatalf("Expected 12 number rows, got %d", len(numbers))
	}
	if numbers[1].Number != 2 || numbers[1].Count != 2 || numbers[1].LastSeen != "1/2" {
		t.Errorf("Unexpected row for 2: %+v", numbers[1])
	}
	if numbers[11].Heat != "cold" || numbers[11].LastSeen != "" {
		t.Errorf("Unexpected row for 12: %+v", numbers[11])
	}

	matches := MatchRows(report.Matches)
	if len(matches) != 2 {
		t.Fatalf("Expected 2 match rows, got %d", len(matches))
	}
	if matches[0].MatchCount != 3 || matches[0].Special != "4" || len(matches[0].Selected) != 3 {
		t.Errorf("Unexpected first match row: %+v", matches[0])
	}

	combos := ComboRows(report.Combos, 1)
	if len(combos) != 2 {
		t.Fatalf("Expected one row per non-empty k, got %d", len(combos))
	}
	if combos[0].K != 2 || combos[0].Combination != "2-3" || combos[0].Count != 2 {
		t.Errorf("Unexpected top pair: %+v", combos[0])
	}
	if combos[1].K != 3 || combos[1].Combination != "2-3-9" || combos[1].Count != 1 {
		t.Errorf("Unexpected top triple: %+v", combos[1])
	}
}

func TestExportReport(t *testing.T) {
	report := testReport(t)
	dir := t.TempDir()

	csvExporter := NewExporter(Options{Format: FormatCSV, FilePath: filepath.Join(dir, "report.csv")})
	paths, err := csvExporter.ExportReport(report)
	if err != nil {
		t.Fatalf("ExportReport(csv) failed: %v", err)
	}
	want := []string{"report_numbers.csv", "report_matches.csv", "report_combos.csv"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d files, got %v", len(want), paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("path %d = %s, want %s", i, filepath.Base(p), want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing export file %s: %v", p, err)
		}
	}

	jsonPath := filepath.Join(dir, "report.json")
	jsonExporter := NewExporter(Options{Format: FormatJSON, FilePath: jsonPath, PrettyJSON: true})
	if _, err := jsonExporter.ExportReport(report); err != nil {
		t.Fatalf("ExportReport(json) failed: %v", err)
	}

	content, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read export file: %v", err)
	}
	var doc ReportDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if doc.Game != "powerball" || doc.Status != analysis.StatusOK || doc.Draws != 2 {
		t.Errorf("Unexpected document header: %+v", doc)
	}
	if len(doc.Selection) != 3 || doc.Summary == nil || len(doc.Numbers) != 12 {
		t.Errorf("Unexpected document body: selection=%v summary=%v numbers=%d", doc.Selection, doc.Summary, len(doc.Numbers))
	}

	if _, err := jsonExporter.ExportReport(nil); err == nil {
		t.Error("Expected error for nil report")
	}
}

func TestSuffixedPath(t *testing.T) {
	if got := SuffixedPath(filepath.Join("out", "report.csv"), "combos"); got != filepath.Join("out", "report_combos.csv") {
		t.Errorf("SuffixedPath = %s", got)
	}
	if got := SuffixedPath("report", "wheel"); got != "report_wheel" {
		t.Errorf("SuffixedPath without extension = %s", got)
	}
}
