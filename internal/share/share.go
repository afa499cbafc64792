// Package share renders settlement results as plain text for the clipboard,
// messengers and Discord.
package share

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/susu3304/pokerpal/internal/settlement"
)

// DiscordMessageLimit is the maximum length of a Discord message.
const DiscordMessageLimit = 2000

// Text renders the result the way it is shared with the table. gameURL may
// be empty for unsaved games.
func Text(result *settlement.Result, gameURL string) string {
	c := result.Currency

	var b strings.Builder
	b.WriteString("PokerPal Results\n")
	fmt.Fprintf(&b, "Total Pot: %s\n\n", settlement.FormatMoney(c, result.PotValue))

	b.WriteString("Results:\n")
	for _, r := range result.PlayerResults {
		fmt.Fprintf(&b, "%s: %s\n", r.Name, settlement.FormatSignedMoney(c, r.Result))
	}

	if len(result.Payouts) > 0 {
		b.WriteString("\nPayouts:\n")
		for _, line := range result.DescribePayouts() {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if gameURL != "" {
		fmt.Fprintf(&b, "\nCheck out the full game: %s", gameURL)
	}

	return b.String()
}

// GameURL is the public link of a saved game.
func GameURL(baseURL, gameID string) string {
	if gameID == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/game/" + url.PathEscape(gameID)
}

func WhatsAppURL(text string) string {
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

func TelegramURL(gameURL, text string) string {
	v := url.Values{}
	v.Set("url", gameURL)
	v.Set("text", text)
	return "https://t.me/share/url?" + v.Encode()
}

// Links bundles everything a client needs to share a game.
type Links struct {
	Text     string `json:"text"`
	URL      string `json:"url,omitempty"`
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
}

func NewLinks(result *settlement.Result, gameURL string) Links {
	text := Text(result, gameURL)
	return Links{
		Text:     text,
		URL:      gameURL,
		WhatsApp: WhatsAppURL(text),
		Telegram: TelegramURL(gameURL, text),
	}
}

// Chunks splits text on line boundaries into pieces of at most limit bytes.
// A single line longer than limit is cut between runes. A limit of zero or
// less disables splitting.
func Chunks(text string, limit int) []string {
	text = strings.TrimRight(text, "\n")
	if limit <= 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	var buffer strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if buffer.Len() > 0 {
				chunks = append(chunks, buffer.String())
				buffer.Reset()
			}
			cut := runeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if buffer.Len() > 0 && buffer.Len()+len(line)+1 > limit {
			chunks = append(chunks, buffer.String())
			buffer.Reset()
		}
		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
	}

	if buffer.Len() > 0 {
		chunks = append(chunks, buffer.String())
	}
	return chunks
}

// runeCut returns the largest index no greater than limit that starts a
// rune. A rune wider than limit is kept whole.
func runeCut(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(line)
		return size
	}
	return cut
}
