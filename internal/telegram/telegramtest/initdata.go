// Package telegramtest builds signed init data for tests.
package telegramtest

import (
	"net/url"
	"strconv"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// InitData returns a query string carrying user (raw JSON) signed with botToken
// as of authDate.
func InitData(botToken, user string, authDate time.Time) string {
	payload := map[string]string{
		"query_id": "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":     user,
	}
	hash := initdata.Sign(payload, botToken, authDate)

	v := url.Values{}
	for k, val := range payload {
		v.Set(k, val)
	}
	v.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	v.Set("hash", hash)
	return v.Encode()
}
