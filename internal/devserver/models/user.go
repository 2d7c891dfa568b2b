// Package models defines the devserver's persisted entities.
package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	PhotoURL     string
	Phone        string
	Location     string
	Bio          string
	RefreshToken string
	CreatedAt    time.Time
}
