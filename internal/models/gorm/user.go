package gorm

import (
	"astra/telemetry-backend/internal/constants"
	"strings"
	"time"
)

type User struct {
	ID           uint           `gorm:"column:id;primaryKey"`
	Username     string         `gorm:"column:username;size:150;uniqueIndex;not null"`
	Email        string         `gorm:"column:email;size:254;uniqueIndex;not null"`
	FirstName    string         `gorm:"column:first_name;size:150;not null"`
	LastName     string         `gorm:"column:last_name;size:150;not null"`
	Role         constants.Role `gorm:"column:role;size:20;not null"`
	Department   *string        `gorm:"column:department;size:100"`
	Phone        *string        `gorm:"column:phone;size:20"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	IsSuperuser  bool           `gorm:"column:is_superuser;not null"`
	DateJoined   time.Time      `gorm:"column:date_joined;autoCreateTime"`
	LastLogin    *time.Time     `gorm:"column:last_login"`

	// Relationships
	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) HasOperatorAccess() bool {
	return constants.HasOperatorAccess(u.Role, u.IsSuperuser)
}

func (u User) HasAdminAccess() bool {
	return constants.HasAdminAccess(u.Role, u.IsSuperuser)
}

type UserProfile struct {
	ID                   uint      `gorm:"column:id;primaryKey"`
	UserID               uint      `gorm:"column:user_id;uniqueIndex;not null"`
	Avatar               *string   `gorm:"column:avatar;size:255"`
	Bio                  string    `gorm:"column:bio;type:text"`
	Timezone             string    `gorm:"column:timezone;size:50;not null"`
	Language             string    `gorm:"column:language;size:10;not null"`
	Theme                string    `gorm:"column:theme;size:10;not null"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// NewDefaultProfile returns the profile a user gets on first access.
func NewDefaultProfile(userID uint) UserProfile {
	return UserProfile{
		UserID:               userID,
		Timezone:             constants.DefaultTimezone,
		Language:             constants.LanguageES,
		Theme:                constants.ThemeLight,
		NotificationsEnabled: true,
	}
}
