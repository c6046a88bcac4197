package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottostat/internal/models"
)

var (
	powerball = models.Game{Name: "powerball", MaxNumber: 69, DoublePlay: true, SpecialColumns: []string{"Powerball", "Power Play"}}
	lotto     = models.Game{Name: "lotto", MaxNumber: 38, SpecialColumns: []string{"Multiplier"}}
)

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []int
	}{
		{name: "hyphens", field: "01-02-03-04-05", want: []int{1, 2, 3, 4, 5}},
		{name: "commas and spaces", field: " 7, 14 ,21  28,35 ", want: []int{7, 14, 21, 28, 35}},
		{name: "decorations", field: "Double Play® 3 - 9 - 27", want: []int{3, 9, 27}},
		{name: "zero dropped", field: "0-5-00-6", want: []int{5, 6}},
		{name: "empty", field: "", want: []int{}},
		{name: "garbage", field: "n/a", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumbers(tt.field))
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "winningnumbers", normalizeHeader(" Winning Numbers "))
	assert.Equal(t, "winningnumbers", normalizeHeader("winning_numbers"))
	assert.Equal(t, "powerball", normalizeHeader("Powerball®"))
	assert.Equal(t, "powerplay", normalizeHeader("Power Play"))
}

func TestLoadHistory_PlainGame(t *testing.T) {
	rows := []Row{
		{"Date": "3/2/2024", "Winning Numbers": "01-12-23-34-35", "Multiplier": "2X"},
		{"Date": "3/1/2024", "Winning Numbers": "", "Multiplier": ""},
		// a numeric-only row is never a secondary draw in a plain game
		{"Date": "", "Winning Numbers": "4-5-6-7-8", "Multiplier": ""},
	}

	h, report := LoadHistory(lotto, models.NewestFirst, rows)

	require.Equal(t, 3, h.Len())
	assert.Equal(t, "lotto", h.Game)
	assert.Equal(t, models.NewestFirst, h.Order)
	assert.Equal(t, []int{1, 12, 23, 34, 35}, h.Draws[0].Numbers)
	assert.Equal(t, "2X", h.Draws[0].Special)
	assert.Empty(t, h.Draws[1].Numbers)
	assert.False(t, h.Draws[2].Secondary)

	assert.Equal(t, ParseReport{Rows: 3, Draws: 3, Malformed: 1}, report)
}

func TestLoadHistory_DoublePlayPairing(t *testing.T) {
	rows := []Row{
		{"Date": "3/2/2024", "Winning Numbers": "05-12-19-33-41", "Powerball": "10", "Power Play": "2"},
		{"Date": "", "Winning Numbers": "02-14-20-34-42", "Powerball": "", "Power Play": ""},
		{"Date": "2/28/2024", "Winning Numbers": "01-05-12-19-60", "Powerball": "3", "Power Play": "3"},
		{"Date": "2/28/2024", "Winning Numbers": "Double Play: 07-08-09-10-11", "Powerball": "4", "Power Play": ""},
		{"Date": "2/26/2024", "Winning Numbers": "03-12-19-33-65", "Powerball": "9", "Power Play": "5"},
	}

	h, report := LoadHistory(powerball, models.NewestFirst, rows)

	require.Equal(t, 5, h.Len())
	assert.Equal(t, ParseReport{Rows: 5, Draws: 5, Secondaries: 2}, report)

	assert.False(t, h.Draws[0].Secondary)
	assert.Equal(t, "10", h.Draws[0].Special)

	assert.True(t, h.Draws[1].Secondary)
	assert.Equal(t, "3/2/2024", h.Draws[1].Date, "secondary shares the primary's date")
	assert.Equal(t, []int{2, 14, 20, 34, 42}, h.Draws[1].Numbers)

	assert.True(t, h.Draws[3].Secondary)
	assert.Equal(t, "2/28/2024", h.Draws[3].Date)
	assert.Equal(t, []int{7, 8, 9, 10, 11}, h.Draws[3].Numbers)
	assert.Equal(t, "4", h.Draws[3].Special)

	assert.False(t, h.Draws[4].Secondary)
	require.NoError(t, h.Validate())
}

func TestLoadHistory_SecondaryConsumedOnce(t *testing.T) {
	rows := []Row{
		{"Date": "1/1", "Winning Numbers": "1-2-3-4-5"},
		{"Date": "", "Winning Numbers": "6-7-8-9-10"},
		{"Date": "", "Winning Numbers": "11-12-13-14-15"},
	}

	h, report := LoadHistory(powerball, models.NewestFirst, rows)

	require.Equal(t, 3, h.Len())
	assert.Equal(t, 1, report.Secondaries)
	assert.Equal(t, 1, report.Orphans)
	assert.True(t, h.Draws[1].Secondary)
	assert.False(t, h.Draws[2].Secondary, "second secondary row has no primary left")
}

func TestLoadHistory_OrphanAtTop(t *testing.T) {
	rows := []Row{
		{"Date": "", "Winning Numbers": "6-7-8-9-10"},
		{"Date": "1/1", "Winning Numbers": "1-2-3-4-5"},
	}

	h, report := LoadHistory(powerball, models.NewestFirst, rows)

	require.Equal(t, 2, h.Len())
	assert.Equal(t, 1, report.Orphans)
	assert.False(t, h.Draws[0].Secondary)
	require.NoError(t, h.Validate())
}

func TestLoadHistory_DecoratedHeaders(t *testing.T) {
	rows := []Row{
		{" Date ": " 1/1 ", "Winning Numbers®": " 1 - 2 - 3 - 4 - 5 ", "Powerball®": " 26 "},
	}

	h, _ := LoadHistory(powerball, models.NewestFirst, rows)

	require.Equal(t, 1, h.Len())
	assert.Equal(t, "1/1", h.Draws[0].Date)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, h.Draws[0].Numbers)
	assert.Equal(t, "26", h.Draws[0].Special)
}

func TestLoadHistory_NoRows(t *testing.T) {
	h, report := LoadHistory(powerball, models.NewestFirst, nil)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, ParseReport{}, report)
}
