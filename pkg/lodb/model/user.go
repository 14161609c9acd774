package model

import "time"

type User struct {
	ID        int    `json:"id"`
	UUID      string `json:"uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	ApiToken  string `json:"-"`
	Password  string `json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
