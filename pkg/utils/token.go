package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const deviceTokenBytes = 24

var ErrEmptyToken = errors.New("token must not be empty")

// GenerateDeviceToken returns a random URL-safe secret for sensor firmware.
func GenerateDeviceToken() (string, error) {
	buf := make([]byte, deviceTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckToken(hashedToken, token string) bool {
	if hashedToken == "" || token == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(token))
	return err == nil
}
