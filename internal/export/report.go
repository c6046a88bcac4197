package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/session"
	"github.com/rewired-gh/lottostat/internal/wheel"
)

// NumberRow is one number of a stats result.
type NumberRow struct {
	Number   int    `csv:"number" json:"number"`
	Count    int    `csv:"count" json:"count"`
	Heat     string `csv:"heat" json:"heat"`
	LastSeen string `csv:"last_seen" json:"last_seen,omitempty"`
}

// MatchRow is one matched draw.
type MatchRow struct {
	MatchCount int    `csv:"match_count" json:"match_count"`
	Date       string `csv:"date" json:"date"`
	Numbers    []int  `csv:"numbers" json:"numbers"`
	Selected   []int  `csv:"selected" json:"selected"`
	Special    string `csv:"special" json:"special,omitempty"`
	Secondary  bool   `csv:"secondary" json:"secondary"`
}

// ComboRow is one ranked entry of a combination table.
type ComboRow struct {
	K           int    `csv:"k" json:"k"`
	Rank        int    `csv:"rank" json:"rank"`
	Combination string `csv:"combination" json:"combination"`
	Count       int    `csv:"count" json:"count"`
}

// TicketRow is one wheel ticket.
type TicketRow struct {
	Line    int   `csv:"line" json:"line"`
	Numbers []int `csv:"numbers" json:"numbers"`
}

// ReportDocument is the JSON shape of a session report.
type ReportDocument struct {
	SessionID   string            `json:"session_id"`
	Game        string            `json:"game"`
	Selection   []int             `json:"selection"`
	Status      analysis.Status   `json:"status"`
	Draws       int               `json:"draws"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     *analysis.Summary `json:"summary,omitempty"`
	Numbers     []NumberRow       `json:"numbers"`
	Matches     []MatchRow        `json:"matches"`
	Combos      []ComboRow        `json:"combos"`
}

// NumberRows lists every number in ascending order with its heat label and the
// date of its most recent occurrence.
func NumberRows(stats analysis.StatsResult, heat map[int]analysis.Heat, order models.Order) []NumberRow {
	sorted := stats.Sorted()
	rows := make([]NumberRow, 0, len(sorted))
	for _, stat := range sorted {
		row := NumberRow{Number: stat.Number, Count: stat.Count, Heat: heat[stat.Number].String()}
		if len(stat.Dates) > 0 {
			last := stat.Dates[0]
			if order == models.OldestFirst {
				last = stat.Dates[len(stat.Dates)-1]
			}
			row.LastSeen = last.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// MatchRows flattens match groups, highest match count first.
func MatchRows(result analysis.MatchResult) []MatchRow {
	rows := make([]MatchRow, 0, result.Draws())
	for _, group := range result.Groups {
		for _, draw := range group.Draws {
			row := MatchRow{
				MatchCount: group.MatchCount,
				Date:       draw.Date,
				Numbers:    make([]int, 0, len(draw.Balls)),
				Selected:   []int{},
				Special:    draw.Special,
				Secondary:  draw.Secondary,
			}
			for _, ball := range draw.Balls {
				row.Numbers = append(row.Numbers, ball.Number)
				if ball.Selected {
					row.Selected = append(row.Selected, ball.Number)
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ComboRows flattens combination tables by ascending k. A positive topK keeps only
// the leading entries of each table.
func ComboRows(result analysis.ComboResult, topK int) []ComboRow {
	rows := []ComboRow{}
	for _, k := range result.Sizes() {
		entries := result.Tables[k].Entries
		if topK > 0 {
			entries = result.Tables[k].Top(topK)
		}
		for i, entry := range entries {
			rows = append(rows, ComboRow{
				K:           k,
				Rank:        i + 1,
				Combination: entry.Combination.String(),
				Count:       entry.Count,
			})
		}
	}
	return rows
}

// TicketRows converts wheel tickets.
func TicketRows(tickets []wheel.Ticket) []TicketRow {
	rows := make([]TicketRow, len(tickets))
	for i, t := range tickets {
		rows[i] = TicketRow{Line: t.Line, Numbers: t.Numbers}
	}
	return rows
}

// NewReportDocument builds the JSON shape of a report.
func NewReportDocument(r *session.Report) ReportDocument {
	return ReportDocument{
		SessionID:   r.SessionID,
		Game:        r.Game,
		Selection:   r.Selection.Numbers(),
		Status:      r.Status,
		Draws:       r.Draws,
		GeneratedAt: r.GeneratedAt,
		Summary:     r.Summary,
		Numbers:     NumberRows(r.Stats, r.Heat, r.Order),
		Matches:     MatchRows(r.Matches),
		Combos:      ComboRows(r.Combos, r.TopK),
	}
}

// ExportReport writes a session report and returns the paths written. JSON goes to
// a single document; CSV is split into one file per table, named after FilePath
// with _numbers, _matches and _combos suffixes.
func (e *Exporter) ExportReport(r *session.Report) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("report is required")
	}

	switch e.opts.Format {
	case FormatJSON:
		if err := e.Export(NewReportDocument(r)); err != nil {
			return nil, err
		}
		return []string{e.opts.FilePath}, nil
	case FormatCSV:
		tables := []struct {
			suffix string
			data   interface{}
		}{
			{"numbers", NumberRows(r.Stats, r.Heat, r.Order)},
			{"matches", MatchRows(r.Matches)},
			{"combos", ComboRows(r.Combos, r.TopK)},
		}
		paths := make([]string, 0, len(tables))
		for _, table := range tables {
			opts := e.opts
			opts.FilePath = SuffixedPath(e.opts.FilePath, table.suffix)
			if err := NewExporter(opts).Export(table.data); err != nil {
				return paths, fmt.Errorf("failed to export %s: %w", table.suffix, err)
			}
			paths = append(paths, opts.FilePath)
		}
		return paths, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", e.opts.Format)
	}
}

// ExportTickets writes wheel tickets to the configured file.
func (e *Exporter) ExportTickets(tickets []wheel.Ticket) error {
	return e.Export(TicketRows(tickets))
}

// SuffixedPath turns "out/report.csv" into "out/report_combos.csv".
func SuffixedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}
