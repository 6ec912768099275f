package telegram

import (
	"errors"
	"fmt"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

var ErrInvalidInitData = errors.New("invalid init data")

// WebAppUser is the user object Telegram embeds in a mini app's init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// ValidateInitData checks the signature Telegram puts on Telegram.WebApp.initData
// and returns the user it vouches for. Data older than maxAge is rejected.
func ValidateInitData(raw, botToken string, maxAge time.Duration) (WebAppUser, error) {
	if botToken == "" {
		return WebAppUser{}, fmt.Errorf("%w: bot token not configured", ErrInvalidInitData)
	}
	if err := initdata.Validate(raw, botToken, maxAge); err != nil {
		return WebAppUser{}, fmt.Errorf("%w: %w", ErrInvalidInitData, err)
	}

	data, err := initdata.Parse(raw)
	if err != nil {
		return WebAppUser{}, fmt.Errorf("%w: %w", ErrInvalidInitData, err)
	}
	if data.User.ID == 0 {
		return WebAppUser{}, fmt.Errorf("%w: user id missing", ErrInvalidInitData)
	}
	return WebAppUser{
		ID:        data.User.ID,
		FirstName: data.User.FirstName,
		LastName:  data.User.LastName,
		Username:  data.User.Username,
	}, nil
}
