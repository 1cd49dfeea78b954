package models

import "time"

// UserModel is the site administrator. Only one user is expected.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Name     string `json:"name"     gorm:"size:80"`
	Password string `json:"-"        gorm:"size:128;not null"`
}

func (UserModel) TableName() string { return "users" }

// UserSession is a DB-backed login session bound to a JWT.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"type:char(36);index;not null"`
	IP        string     `json:"ip"         gorm:"size:64"`
	UA        string     `json:"ua"         gorm:"size:255"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
}

func (UserSession) TableName() string { return "user_sessions" }
