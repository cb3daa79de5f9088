package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const initDataMaxAge = 24 * time.Hour

var (
	ErrInvalidInitData = errors.New("invalid telegram init data")
	ErrStaleInitData   = errors.New("telegram init data expired")
)

// ValidateTelegramInitData verifies the signature of a Telegram WebApp
// initData string and returns the authenticated user id. The signing key is
// SHA-256 of the bot token; the check string is the sorted key=value pairs
// (hash excluded) joined with newlines.
func ValidateTelegramInitData(initData, botToken string, now time.Time) (string, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return "", ErrInvalidInitData
	}

	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return "", ErrInvalidInitData
	}

	var pairs []string
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretKey := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secretKey[:])
	mac.Write([]byte(checkString))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(receivedHash)) {
		return "", ErrInvalidInitData
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return "", ErrInvalidInitData
		}
		if now.Sub(time.Unix(ts, 0)) > initDataMaxAge {
			return "", ErrStaleInitData
		}
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return "", ErrInvalidInitData
	}

	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == 0 {
		return "", ErrInvalidInitData
	}

	return fmt.Sprintf("%d", user.ID), nil
}

// SignTelegramInitData produces a valid initData string for the given fields.
// Used by tests and local tooling to fabricate WebApp logins.
func SignTelegramInitData(fields map[string]string, botToken string) string {
	var pairs []string
	for key, value := range fields {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretKey := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secretKey[:])
	mac.Write([]byte(checkString))

	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}
