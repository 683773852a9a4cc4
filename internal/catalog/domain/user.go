package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// User is referenced by stores and reviews; authentication lives elsewhere.
type User struct {
	ID                   string
	Email                string
	Name                 string
	Hearts               []string
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time
}

// Gravatar derives the avatar URL from the email address.
func (u User) Gravatar() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return "https://gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200"
}

// HasHeart reports whether storeID is in the user's hearts.
func (u User) HasHeart(storeID string) bool {
	for _, id := range u.Hearts {
		if id == storeID {
			return true
		}
	}
	return false
}
