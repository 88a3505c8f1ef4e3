package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode"

	"astra/telemetry-backend/internal/auth"
	"astra/telemetry-backend/internal/constants"
	"astra/telemetry-backend/internal/db/repositories"
	"astra/telemetry-backend/internal/logging"
	"astra/telemetry-backend/internal/models/dtos"
	gormModels "astra/telemetry-backend/internal/models/gorm"
)

// UserService manages accounts and profiles.
type UserService struct {
	users *repositories.UserRepositoryGORM
}

func NewUserService(users *repositories.UserRepositoryGORM) *UserService {
	return &UserService{users: users}
}

func validatePassword(fe FieldErrors, field, password string) {
	if len(password) < constants.MinPasswordLength {
		fe.Add(field, "This password is too short. It must contain at least 8 characters.")
		return
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		fe.Add(field, "This password is entirely numeric.")
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *UserService) List(ctx context.Context) ([]dtos.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fromRepo("user", err)
	}
	return dtos.NewUserResponses(users), nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("user", err)
	}
	resp := dtos.NewUserResponse(*user)
	return &resp, nil
}

// Create registers a new account with a default profile.
func (s *UserService) Create(ctx context.Context, req dtos.CreateUserReq) (*dtos.UserResponse, error) {
	fe := FieldErrors{}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" {
		fe.Add("username", "This field is required")
	} else if len(username) > 150 {
		fe.Add("username", "Ensure this field has no more than 150 characters")
	}
	if email == "" {
		fe.Add("email", "This field is required")
	} else if !validEmail(email) {
		fe.Add("email", "Enter a valid email address")
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fe.Add("first_name", "This field is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		fe.Add("last_name", "This field is required")
	}

	role := req.Role
	if role == "" {
		role = constants.RoleViewer
	}
	if !role.Valid() {
		fe.Add("role", "Invalid role")
	}

	validatePassword(fe, "password", req.Password)
	if req.Password != req.PasswordConfirm {
		fe.Add("password_confirm", constants.MsgPasswordMismatch)
	}

	if _, bad := fe["username"]; !bad && username != "" {
		taken, err := s.users.UsernameTaken(ctx, username, 0)
		if err != nil {
			return nil, fromRepo("user", err)
		}
		if taken {
			fe.Add("username", "A user with that username already exists")
		}
	}
	if _, bad := fe["email"]; !bad && email != "" {
		taken, err := s.users.EmailTaken(ctx, email, 0)
		if err != nil {
			return nil, fromRepo("user", err)
		}
		if taken {
			fe.Add("email", "A user with that email already exists")
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fromRepo("user", err)
	}

	user := &gormModels.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Department:   req.Department,
		Phone:        req.Phone,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fromRepo("user", err)
	}

	logging.Info("user created", "user_id", user.ID, "role", user.Role)
	resp := dtos.NewUserResponse(*user)
	return &resp, nil
}

// Update lets admins edit anyone and users edit their own contact fields.
// Only admins may change role or is_active.
func (s *UserService) Update(ctx context.Context, caller auth.UserClaims, id uint, req dtos.UpdateUserReq) (*dtos.UserResponse, error) {
	isAdmin := caller.HasAdminAccess()
	if !isAdmin && caller.UserID() != id {
		return nil, newError(constants.ErrCodePermissionDenied, constants.MsgPermissionSelfAdmin)
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, fromRepo("user", err)
	}

	fe := FieldErrors{}
	updates := map[string]any{}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			fe.Add("first_name", "This field may not be blank")
		}
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			fe.Add("last_name", "This field may not be blank")
		}
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		if !isAdmin {
			return nil, newError(constants.ErrCodePermissionDenied, constants.MsgPermissionAdmin)
		}
		if !req.Role.Valid() {
			fe.Add("role", "Invalid role")
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		if !isAdmin {
			return nil, newError(constants.ErrCodePermissionDenied, constants.MsgPermissionAdmin)
		}
		updates["is_active"] = *req.IsActive
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, id, updates); err != nil {
		return nil, fromRepo("user", err)
	}
	return s.Get(ctx, id)
}

// Delete removes another user's account. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caller auth.UserClaims, id uint) error {
	if caller.UserID() == id {
		return newError(constants.ErrCodePermissionDenied, "You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fromRepo("user", err)
	}
	logging.Info("user deleted", "user_id", id, "deleted_by", caller.UserID())
	return nil
}

// CurrentUser returns the caller with its profile, creating the profile if missing.
func (s *UserService) CurrentUser(ctx context.Context, caller auth.UserClaims) (*dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, caller.UserID())
	if err != nil {
		return nil, fromRepo("user", err)
	}
	if user.Profile == nil {
		profile, err := s.users.GetOrCreateProfile(ctx, user.ID)
		if err != nil {
			return nil, fromRepo("profile", err)
		}
		user.Profile = profile
	}
	resp := dtos.NewUserResponse(*user)
	return &resp, nil
}

func (s *UserService) GetProfile(ctx context.Context, caller auth.UserClaims) (*dtos.ProfileResponse, error) {
	profile, err := s.users.GetOrCreateProfile(ctx, caller.UserID())
	if err != nil {
		return nil, fromRepo("profile", err)
	}
	resp := dtos.NewProfileResponse(*profile)
	return &resp, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, caller auth.UserClaims, req dtos.UpdateProfileReq) (*dtos.ProfileResponse, error) {
	if _, err := s.users.GetOrCreateProfile(ctx, caller.UserID()); err != nil {
		return nil, fromRepo("profile", err)
	}

	fe := FieldErrors{}
	updates := map[string]any{}

	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		if len([]rune(*req.Bio)) > constants.MaxBioLength {
			fe.Add("bio", "Ensure this field has no more than 500 characters")
		}
		updates["bio"] = *req.Bio
	}
	if req.Timezone != nil {
		if strings.TrimSpace(*req.Timezone) == "" {
			fe.Add("timezone", "This field may not be blank")
		}
		updates["timezone"] = *req.Timezone
	}
	if req.Language != nil {
		if *req.Language != constants.LanguageES && *req.Language != constants.LanguageEN {
			fe.Add("language", "Invalid language")
		}
		updates["language"] = *req.Language
	}
	if req.Theme != nil {
		if *req.Theme != constants.ThemeLight && *req.Theme != constants.ThemeDark {
			fe.Add("theme", "Invalid theme")
		}
		updates["theme"] = *req.Theme
	}
	if req.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *req.NotificationsEnabled
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	if err := s.users.UpdateProfile(ctx, caller.UserID(), updates); err != nil {
		return nil, fromRepo("profile", err)
	}
	return s.GetProfile(ctx, caller)
}

func (s *UserService) ChangePassword(ctx context.Context, caller auth.UserClaims, req dtos.ChangePasswordReq) error {
	user, err := s.users.GetByID(ctx, caller.UserID())
	if err != nil {
		return fromRepo("user", err)
	}

	fe := FieldErrors{}
	if req.OldPassword == "" {
		fe.Add("old_password", "This field is required")
	} else if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		fe.Add("old_password", constants.MsgWrongOldPassword)
	}
	validatePassword(fe, "new_password", req.NewPassword)
	if req.NewPassword != req.NewPasswordConfirm {
		fe.Add("new_password_confirm", constants.MsgPasswordMismatch)
	}
	if err := fe.Err(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fromRepo("user", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fromRepo("user", err)
	}
	logging.Info("password changed", "user_id", user.ID)
	return nil
}

// errIsNotFound is used by callers that treat a missing row as a validation problem.
func errIsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
