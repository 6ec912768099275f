package telegram_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishanu7/minigames-bot/internal/telegram"
	"github.com/krishanu7/minigames-bot/internal/telegram/telegramtest"
)

const token = "123456:TEST-TOKEN"

func TestValidateInitData(t *testing.T) {
	raw := telegramtest.InitData(token, `{"id":42,"first_name":"Ann","last_name":"Lee","username":"ann"}`, time.Now().Add(-time.Minute))

	user, err := telegram.ValidateInitData(raw, token, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, telegram.WebAppUser{ID: 42, FirstName: "Ann", LastName: "Lee", Username: "ann"}, user)
}

func TestValidateInitDataRejects(t *testing.T) {
	now := time.Now()
	good := telegramtest.InitData(token, `{"id":42,"first_name":"Ann"}`, now)

	tampered, err := url.ParseQuery(good)
	require.NoError(t, err)
	tampered.Set("user", `{"id":1,"first_name":"Mallory"}`)

	noHash, err := url.ParseQuery(good)
	require.NoError(t, err)
	noHash.Del("hash")

	tests := []struct {
		name  string
		raw   string
		token string
	}{
		{"wrong token", good, "999:OTHER"},
		{"no token configured", good, ""},
		{"tampered user", tampered.Encode(), token},
		{"missing hash", noHash.Encode(), token},
		{"expired", telegramtest.InitData(token, `{"id":42,"first_name":"Ann"}`, now.Add(-48*time.Hour)), token},
		{"no user id", telegramtest.InitData(token, `{"first_name":"Ghost"}`, now), token},
		{"garbage", "%zz", token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := telegram.ValidateInitData(tt.raw, tt.token, 24*time.Hour)
			assert.ErrorIs(t, err, telegram.ErrInvalidInitData)
		})
	}
}
