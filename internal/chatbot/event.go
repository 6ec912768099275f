package chatbot

import (
	"math"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/go-telegram/bot/models"
)

type EventKind string

const (
	KindCommand    EventKind = "command"
	KindWebAppData EventKind = "web_app_data"
	KindUnknown    EventKind = "unknown"
)

// Player is the identity Telegram attaches to a message. It is trusted as is.
type Player struct {
	ID          int64
	Username    string
	DisplayName string
}

// Event is one inbound update, already classified. Pattern is the key the
// router looks up together with Kind: a command name or a web app action.
type Event interface {
	Kind() EventKind
	Pattern() string
	ChatID() int64
}

type CommandEvent struct {
	Chat      int64
	MessageID int
	From      Player
	Command   string
	Args      []string
}

func (e CommandEvent) Kind() EventKind { return KindCommand }
func (e CommandEvent) Pattern() string { return e.Command }
func (e CommandEvent) ChatID() int64   { return e.Chat }

// WebAppPayload is what the mini games pass to Telegram.WebApp.sendData.
// Minesweeper sends {action:"game_won", difficulty, time, user_id}; Memory
// sends {action:"game_complete", score, level, difficulty}.
type WebAppPayload struct {
	Action     string   `json:"action"`
	Difficulty string   `json:"difficulty"`
	Time       *float64 `json:"time,omitempty"` // milliseconds
	Score      int      `json:"score"`
	Level      int      `json:"level"`
	UserID     int64    `json:"user_id,omitempty"`
}

type WebAppDataEvent struct {
	Chat      int64
	MessageID int
	From      Player
	Payload   WebAppPayload
	// Err is set when the payload could not be decoded.
	Err error
}

func (e WebAppDataEvent) Kind() EventKind { return KindWebAppData }
func (e WebAppDataEvent) Pattern() string { return e.Payload.Action }
func (e WebAppDataEvent) ChatID() int64   { return e.Chat }

type UnknownEvent struct {
	Chat int64
}

func (e UnknownEvent) Kind() EventKind { return KindUnknown }
func (e UnknownEvent) Pattern() string { return "" }
func (e UnknownEvent) ChatID() int64   { return e.Chat }

// FromUpdate classifies a Telegram update.
func FromUpdate(update *models.Update) Event {
	if update == nil || update.Message == nil {
		return UnknownEvent{}
	}
	msg := update.Message
	if msg.From == nil {
		return UnknownEvent{Chat: msg.Chat.ID}
	}
	from := Player{ID: msg.From.ID, Username: msg.From.Username, DisplayName: msg.From.FirstName}

	if msg.WebAppData != nil {
		ev := WebAppDataEvent{Chat: msg.Chat.ID, MessageID: msg.ID, From: from}
		ev.Err = json.Unmarshal([]byte(msg.WebAppData.Data), &ev.Payload)
		return ev
	}

	if command, args, ok := parseCommand(msg.Text); ok {
		return CommandEvent{Chat: msg.Chat.ID, MessageID: msg.ID, From: from, Command: command, Args: args}
	}
	return UnknownEvent{Chat: msg.Chat.ID}
}

// parseCommand splits "/leaderboard@MinesBot hard" into ("leaderboard", ["hard"]).
func parseCommand(text string) (string, []string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	command, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(command), fields[1:], command != ""
}

// TimeMs returns the reported completion time, or false if it is missing or
// does not fit in an int64.
func (p WebAppPayload) TimeMs() (int64, bool) {
	if p.Time == nil {
		return 0, false
	}
	ms := math.Round(*p.Time)
	if math.IsNaN(ms) || ms >= math.MaxInt64 || ms < math.MinInt64 {
		return 0, false
	}
	return int64(ms), true
}
