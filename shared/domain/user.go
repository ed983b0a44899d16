package domain

import "time"

type User struct {
	Id        UserId
	Email     Email
	Name      string
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

// UserInfo is the per-user aggregate kept next to the credential record.
type UserInfo struct {
	UserId           UserId
	TotalInspections int
}
