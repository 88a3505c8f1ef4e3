package api

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/models/dtos"
)

// ListUsers handles GET /api/v1/auth/users
//
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/v1/auth/users [get]
func (h *Handlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		users, err := h.deps.Services.User.List(r.Context())
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Users fetched successfully", users)
	}
}

// CreateUser handles POST /api/v1/auth/users (admin only)
func (h *Handlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateUserReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		user, err := h.deps.Services.User.Create(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User created successfully", user, http.StatusCreated)
	}
}

func (h *Handlers) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		user, err := h.deps.Services.User.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User fetched successfully", user)
	}
}

// UpdateUser handles PUT /api/v1/auth/users/{id}. Admins may edit anyone;
// other users only themselves.
func (h *Handlers) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.UpdateUserReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		user, err := h.deps.Services.User.Update(r.Context(), claims, id, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User updated successfully", user)
	}
}

func (h *Handlers) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}
		id, ok := pathID(w, r, initTime, "id")
		if !ok {
			return
		}

		if err := h.deps.Services.User.Delete(r.Context(), claims, id); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User deleted successfully", nil)
	}
}

// CurrentUser handles GET /api/v1/auth/profile
func (h *Handlers) CurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		user, err := h.deps.Services.User.CurrentUser(r.Context(), claims)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "User details fetched successfully", user)
	}
}

func (h *Handlers) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		profile, err := h.deps.Services.User.GetProfile(r.Context(), claims)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Profile fetched successfully", profile)
	}
}

func (h *Handlers) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UpdateProfileReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		profile, err := h.deps.Services.User.UpdateProfile(r.Context(), claims, req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Profile updated successfully", profile)
	}
}

// ChangePassword handles POST /api/v1/auth/profile/change-password
func (h *Handlers) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.ChangePasswordReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		if err := h.deps.Services.User.ChangePassword(r.Context(), claims, req); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Password changed successfully", nil)
	}
}
