package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/models"
)

// Row is one raw record of a result file, keyed by column header.
type Row map[string]string

const (
	columnDate    = "date"
	columnNumbers = "winningnumbers"
)

// doublePlayLabel marks a secondary draw row inside the numbers field.
const doublePlayLabel = "double play"

// numericSequence matches a numbers field holding nothing but numbers and separators.
var numericSequence = regexp.MustCompile(`^[0-9]+(?:[\s,\-]+[0-9]+)*$`)

type rowKind int

const (
	rowPrimary rowKind = iota
	rowSecondary
)

type classifiedRow struct {
	kind   rowKind
	fields map[string]string // normalized column -> trimmed value
}

// entry is one logical drawing: a primary row plus its optional secondary row.
type entry struct {
	primary   map[string]string
	secondary map[string]string
}

// ParseReport summarizes what happened while turning rows into draws.
type ParseReport struct {
	Rows        int `json:"rows"`
	Draws       int `json:"draws"`
	Secondaries int `json:"secondaries"` // Secondary rows paired with a primary
	Orphans     int `json:"orphans"`     // Secondary-looking rows with no primary to attach to
	Malformed   int `json:"malformed"`   // Rows whose numbers field yielded no numbers
}

// LoadHistory turns raw rows into the draw history of a game.
//
// Loading never fails because of a row: a row whose numbers field is empty or
// unparseable becomes a draw with no numbers and is counted as malformed.
func LoadHistory(game models.Game, order models.Order, rows []Row) (*models.History, ParseReport) {
	report := ParseReport{Rows: len(rows)}

	classified := classifyRows(game, rows)
	entries := pairRows(classified, &report)

	draws := make([]models.DrawRecord, 0, len(entries)*2)
	for _, e := range entries {
		primary := buildDraw(game, e.primary, "", false)
		if len(primary.Numbers) == 0 {
			report.Malformed++
			logger.Debug("%s: row dated %q has no parseable numbers", game.Name, primary.Date)
		}
		draws = append(draws, primary)

		if e.secondary != nil {
			secondary := buildDraw(game, e.secondary, primary.Date, true)
			if len(secondary.Numbers) == 0 {
				report.Malformed++
			}
			draws = append(draws, secondary)
		}
	}
	report.Draws = len(draws)

	if report.Orphans > 0 {
		logger.Warn("%s: %d secondary rows had no primary row and were kept as primary draws", game.Name, report.Orphans)
	}
	return models.NewHistory(game.Name, order, draws), report
}

// classifyRows is the first pass: every row is labelled primary or secondary
// without looking at its neighbours.
func classifyRows(game models.Game, rows []Row) []classifiedRow {
	out := make([]classifiedRow, 0, len(rows))
	for _, row := range rows {
		fields := normalizeRow(row)
		kind := rowPrimary
		if game.DoublePlay && isSecondaryRow(fields) {
			kind = rowSecondary
		}
		out = append(out, classifiedRow{kind: kind, fields: fields})
	}
	return out
}

// pairRows is the second pass: each secondary row is attached to the primary
// row right before it. A secondary row can be consumed only once.
func pairRows(rows []classifiedRow, report *ParseReport) []entry {
	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		if row.kind == rowSecondary {
			if n := len(entries); n > 0 && entries[n-1].secondary == nil {
				entries[n-1].secondary = row.fields
				report.Secondaries++
				continue
			}
			report.Orphans++
		}
		entries = append(entries, entry{primary: row.fields})
	}
	return entries
}

func isSecondaryRow(fields map[string]string) bool {
	numbers := fields[columnNumbers]
	if strings.Contains(strings.ToLower(numbers), doublePlayLabel) {
		return true
	}
	if !numericSequence.MatchString(numbers) {
		return false
	}
	for column, value := range fields {
		if column != columnNumbers && value != "" {
			return false
		}
	}
	return true
}

func buildDraw(game models.Game, fields map[string]string, date string, secondary bool) models.DrawRecord {
	if date == "" {
		date = fields[columnDate]
	}
	return models.DrawRecord{
		Date:      date,
		Numbers:   ParseNumbers(fields[columnNumbers]),
		Special:   specialValue(game, fields),
		Secondary: secondary,
	}
}

// specialValue returns the first populated special column of the game.
func specialValue(game models.Game, fields map[string]string) string {
	for _, column := range game.SpecialColumns {
		if v := fields[normalizeHeader(column)]; v != "" {
			return v
		}
	}
	return ""
}

// ParseNumbers extracts the positive integers of a winning-numbers field.
// Any run of non-digit characters separates tokens, so "01-02-03", "1, 2, 3",
// "Double Play® 1 2 3" all parse; tokens that are not positive integers are dropped.
func ParseNumbers(field string) []int {
	tokens := strings.FieldsFunc(field, func(r rune) bool {
		return r < '0' || r > '9'
	})
	nums := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

func normalizeRow(row Row) map[string]string {
	fields := make(map[string]string, len(row))
	for header, value := range row {
		key := normalizeHeader(header)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}

// normalizeHeader lowercases a column name and drops everything but letters and
// digits, so "Winning Numbers", " winning_numbers " and "Powerball®" compare cleanly.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
