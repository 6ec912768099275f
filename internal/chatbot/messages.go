package chatbot

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/krishanu7/minigames-bot/internal/leaderboard"
)

const (
	msgSaveFailed    = "😕 Sorry, something went wrong while saving your result. Please try again later."
	msgLoadFailed    = "😕 Sorry, the leaderboard is unavailable right now. Please try again later."
	msgInvalidResult = "🤔 That result doesn't look right, so it was not recorded."
	msgAlreadySaved  = "✅ This result was already recorded."
)

func seconds(ms int64) string {
	return fmt.Sprintf("%.1f", float64(ms)/1000)
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func playerLabel(displayName string, username *string) string {
	name := displayName
	if name == "" {
		name = "Anonymous"
	}
	if username != nil && *username != "" {
		return fmt.Sprintf("%s (@%s)", name, *username)
	}
	return name
}

func gameWonText(difficulty string, timeMs int64, rank int, best int64, hasBest bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Congratulations!\n\nYou won on %s in %s seconds!\n", difficulty, seconds(timeMs))
	fmt.Fprintf(&b, "🏆 Rank #%d on %s", rank, difficulty)
	if hasBest {
		if best == timeMs {
			b.WriteString("\n⭐ That's your personal best!")
		} else {
			fmt.Fprintf(&b, "\n⏱ Your best: %ss", seconds(best))
		}
	}
	return b.String()
}

func memoryResultText(difficulty string, level, score int) string {
	return fmt.Sprintf("🎉 Great game!\n\nDifficulty: %s\nLevel reached: %d\nScore: %d",
		titleCase(difficulty), level, score)
}

func leaderboardText(difficulty string, entries []leaderboard.LeaderboardEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No records yet for %s. Be the first! 🚀", difficulty)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Leaderboard: %s\n", titleCase(difficulty))
	for i, e := range entries {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "\n%s %s - %ss", medal, playerLabel(e.DisplayName, e.Username), seconds(e.BestTimeMs))
	}
	return b.String()
}

func bestText(difficulty string, best int64, ok bool) string {
	if !ok {
		return fmt.Sprintf("You haven't won on %s yet. Tap Play to set a time!", difficulty)
	}
	return fmt.Sprintf("⏱ Your best on %s: %s seconds", difficulty, seconds(best))
}
