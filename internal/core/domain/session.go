package domain

import (
	"fmt"
	"time"
)

const (
	keyPrefix  = "taskflow"
	tasksKey   = "tasks"
	sessionKey = "session"

	LoginRedirect = "/login"
)

// Profile is the user data kept alongside the session marker.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (p Profile) DisplayName() string {
	if p.FullName == "" {
		return "User"
	}

	return p.FullName
}

func (p Profile) Greeting() string {
	return fmt.Sprintf("Welcome back, %s!", p.DisplayName())
}

// Session is the persisted marker whose presence admits a user to the dashboard.
type Session struct {
	Token     string    `json:"token"`
	User      Profile   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

func TasksKey(userID string) string {
	return keyPrefix + ":" + userID + ":" + tasksKey
}

func SessionKey(userID string) string {
	return keyPrefix + ":" + userID + ":" + sessionKey
}
