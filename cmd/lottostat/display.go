package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/session"
	"github.com/rewired-gh/lottostat/internal/wheel"
)

// topNumbers is how many of the most frequent numbers the report lists.
const topNumbers = 10

// printReport displays every query result of a report
func printReport(w io.Writer, r *session.Report) {
	selection := "none"
	if r.Selection.Len() > 0 {
		selection = r.Selection.String()
	}
	fmt.Fprintf(w, "\nGame: %s  Draws: %d  Selection: %s\n", r.Game, r.Draws, selection)
	fmt.Fprintln(w, strings.Repeat("-", 80))

	if r.Status == analysis.StatusNotLoaded {
		fmt.Fprintln(w, "Draw history is not loaded yet.")
		return
	}

	printSummary(w, r)
	printSelectedNumbers(w, r)

	if r.Status == analysis.StatusInsufficientSelection {
		fmt.Fprintln(w, "\nSelect at least two numbers to see matching draws and combinations.")
		return
	}

	printMatches(w, r.Matches)
	printCombos(w, r.Combos, r.TopK)
}

func printSummary(w io.Writer, r *session.Report) {
	if r.Summary != nil {
		s := r.Summary
		fmt.Fprintf(w, "Occurrences: %d over %d numbers (mean %.2f, median %.1f, sd %.2f, min %d, max %d)\n",
			s.Occurrences, s.Numbers, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
	}

	top := analysis.TopNumbers(r.Stats, topNumbers)
	parts := make([]string, len(top))
	for i, stat := range top {
		parts[i] = fmt.Sprintf("%d(%d)", stat.Number, stat.Count)
	}
	fmt.Fprintf(w, "Most drawn: %s\n", strings.Join(parts, " "))
}

func printSelectedNumbers(w io.Writer, r *session.Report) {
	if r.Selection.Len() == 0 {
		return
	}
	fmt.Fprintln(w, "\nSelected numbers:")
	for _, n := range r.Selection.Numbers() {
		stat := r.Stats.Stats[n]
		fmt.Fprintf(w, "  %2d  count %3d  %-8s  last %s\n", n, stat.Count, r.Heat[n], lastSeen(stat, r.Order))
	}
}

func lastSeen(stat models.NumberStat, order models.Order) string {
	if len(stat.Dates) == 0 {
		return "never"
	}
	if order == models.OldestFirst {
		return stat.Dates[len(stat.Dates)-1].String()
	}
	return stat.Dates[0].String()
}

func printMatches(w io.Writer, result analysis.MatchResult) {
	if len(result.Groups) == 0 {
		fmt.Fprintln(w, "\nNo draw holds two or more of the selected numbers.")
		return
	}
	for _, group := range result.Groups {
		fmt.Fprintf(w, "\n%d matches (%d draws):\n", group.MatchCount, len(group.Draws))
		for _, draw := range group.Draws {
			date := draw.Date
			if draw.Secondary {
				date += " (Secondary)"
			}
			fmt.Fprintf(w, "  %-24s %s", date, formatBalls(draw.Balls))
			if draw.Special != "" {
				fmt.Fprintf(w, "  [%s]", draw.Special)
			}
			fmt.Fprintln(w)
		}
	}
}

// formatBalls marks selected numbers with an asterisk
func formatBalls(balls []models.MatchedBall) string {
	parts := make([]string, len(balls))
	for i, ball := range balls {
		parts[i] = strconv.Itoa(ball.Number)
		if ball.Selected {
			parts[i] += "*"
		}
	}
	return strings.Join(parts, " ")
}

func printCombos(w io.Writer, result analysis.ComboResult, topK int) {
	for _, k := range result.Sizes() {
		table := result.Tables[k]
		if table.Status != analysis.StatusOK {
			continue
		}
		fmt.Fprintf(w, "\nTop %d-number combinations (%d of %d seen):\n", k, len(table.Entries), table.Considered)
		if len(table.Entries) == 0 {
			fmt.Fprintln(w, "  none")
			continue
		}
		for i, entry := range table.Top(topK) {
			fmt.Fprintf(w, "  %2d. %-18s %d\n", i+1, entry.Combination, entry.Count)
		}
	}
}

// printTickets displays wheel tickets
func printTickets(w io.Writer, tickets []wheel.Ticket) {
	fmt.Fprintf(w, "\nWheel (%d tickets):\n", len(tickets))
	for _, t := range tickets {
		fmt.Fprintf(w, "  %2d. %s\n", t.Line, models.Combination(t.Numbers))
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  toggle N [N ...]   add or remove numbers")
	fmt.Fprintln(w, "  set 1,2,3          replace the selection")
	fmt.Fprintln(w, "  clear              empty the selection")
	fmt.Fprintln(w, "  show               print the current report")
	fmt.Fprintln(w, "  game NAME          switch game (clears the selection)")
	fmt.Fprintln(w, "  wheel p1,...,p10   generate wheel tickets")
	fmt.Fprintln(w, "  export             write the report to the export path")
	fmt.Fprintln(w, "  notify             send the report to Telegram")
	fmt.Fprintln(w, "  help               show this help")
	fmt.Fprintln(w, "  quit               exit")
}
