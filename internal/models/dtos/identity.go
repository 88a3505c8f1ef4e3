package dtos

import (
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"
	"time"
)

type ProfileResponse struct {
	Avatar               *string   `json:"avatar"`
	Bio                  string    `json:"bio"`
	Timezone             string    `json:"timezone"`
	Language             string    `json:"language"`
	Theme                string    `json:"theme"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          uint             `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	FullName    string           `json:"full_name"`
	Role        constants.Role   `json:"role"`
	Department  *string          `json:"department"`
	Phone       *string          `json:"phone"`
	IsActive    bool             `json:"is_active"`
	IsSuperuser bool             `json:"is_superuser"`
	DateJoined  time.Time        `json:"date_joined"`
	LastLogin   *time.Time       `json:"last_login"`
	Profile     *ProfileResponse `json:"profile,omitempty"`
}

type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

func NewProfileResponse(p gormModels.UserProfile) ProfileResponse {
	return ProfileResponse{
		Avatar:               p.Avatar,
		Bio:                  p.Bio,
		Timezone:             p.Timezone,
		Language:             p.Language,
		Theme:                p.Theme,
		NotificationsEnabled: p.NotificationsEnabled,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func NewUserResponse(u gormModels.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Role:        u.Role,
		Department:  u.Department,
		Phone:       u.Phone,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		DateJoined:  u.DateJoined,
		LastLogin:   u.LastLogin,
	}
	if u.Profile != nil {
		p := NewProfileResponse(*u.Profile)
		resp.Profile = &p
	}
	return resp
}

func NewUserResponses(users []gormModels.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
