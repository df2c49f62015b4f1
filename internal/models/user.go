package models

import (
	"slices"
	"time"
)

// User is an account. Friends holds share codes, never the user's own.
type User struct {
	ID               string    `json:"id"`
	ShareID          string    `json:"share_id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"password_hash"`
	JoinedAt         time.Time `json:"joined_at"`
	Friends          []string  `json:"friends"`
	IsSharingEnabled bool      `json:"is_sharing_enabled"`
}

// HasFriend reports whether shareID is in the user's friend set.
func (u User) HasFriend(shareID string) bool {
	return slices.Contains(u.Friends, shareID)
}
