// Package telegram delivers analysis reports through the Telegram Bot API.
// Reports are formatted as MarkdownV2 digests and sent with linear-backoff retries.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/lottostat/internal/analysis"
	"github.com/rewired-gh/lottostat/internal/logger"
	"github.com/rewired-gh/lottostat/internal/session"
)

// digestItems is how many draws or combinations a digest lists per section.
const digestItems = 3

// sender is the part of tgbotapi.BotAPI the client needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send delivers a digest of the report
func (c *Client) Send(report *session.Report) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}

	msg := tgbotapi.NewMessage(c.chatID, formatReport(report))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			logger.Info("Sent %s report for session %s", report.Game, report.SessionID)
			return nil
		}
		lastErr = err
		logger.Warn("Telegram send attempt %d/%d failed: %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatReport renders the MarkdownV2 digest of a report.
func formatReport(r *session.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🎱 *%s report*\n", escapeMarkdownV2(strings.ToUpper(r.Game)))
	fmt.Fprintf(&b, "📅 Generated: %s\n", escapeMarkdownV2(r.GeneratedAt.Format("2006-01-02 15:04:05")))

	selection := "none"
	if r.Selection.Len() > 0 {
		selection = r.Selection.String()
	}
	fmt.Fprintf(&b, "🔢 Selection: %s\n", escapeMarkdownV2(selection))

	switch r.Status {
	case analysis.StatusNotLoaded:
		b.WriteString("\n⚠️ Draw history is not loaded yet\n")
		return b.String()
	case analysis.StatusInsufficientSelection:
		fmt.Fprintf(&b, "📊 Draws analyzed: %d\n", r.Draws)
		b.WriteString("\n⚠️ Select at least two numbers for match and combination stats\n")
		return b.String()
	}

	fmt.Fprintf(&b, "📊 Draws analyzed: %d\n", r.Draws)

	if hot := r.HotNumbers(); len(hot) > 0 {
		fmt.Fprintf(&b, "🔥 Hot: %s\n", escapeMarkdownV2(joinNumbers(hot)))
	}
	if cold := r.ColdNumbers(); len(cold) > 0 {
		fmt.Fprintf(&b, "🧊 Cold: %s\n", escapeMarkdownV2(joinNumbers(cold)))
	}

	if len(r.Matches.Groups) > 0 {
		best := r.Matches.Groups[0]
		fmt.Fprintf(&b, "\n🎯 *Best match: %d numbers*\n", best.MatchCount)
		for i, draw := range best.Draws {
			if i == digestItems {
				fmt.Fprintf(&b, "   \\+%d more\n", len(best.Draws)-digestItems)
				break
			}
			date := draw.Date
			if draw.Secondary {
				date += " (Secondary)"
			}
			fmt.Fprintf(&b, "   %s\n", escapeMarkdownV2(date))
		}
	}

	for _, k := range r.Combos.Sizes() {
		table := r.Combos.Tables[k]
		if len(table.Entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*Top %s*\n", escapeMarkdownV2(comboName(k)))
		for i, entry := range table.Top(digestItems) {
			fmt.Fprintf(&b, "%d\\. %s × %d\n", i+1, escapeMarkdownV2(entry.Combination.String()), entry.Count)
		}
	}

	return b.String()
}

func comboName(k int) string {
	switch k {
	case 2:
		return "pairs"
	case 3:
		return "triples"
	case 4:
		return "quads"
	case 5:
		return "quints"
	default:
		return fmt.Sprintf("%d-number combinations", k)
	}
}

func joinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
