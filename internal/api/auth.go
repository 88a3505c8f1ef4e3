package api

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/models/dtos"
)

// Login handles POST /api/v1/auth/login
//
// @Summary      Obtain a token pair
// @Description  Exchanges email and password for access and refresh tokens.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.LoginReq  true  "Credentials"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      401  {object}  dtos.APIResponse
// @Router       /api/v1/auth/login [post]
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.LoginReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		resp, err := h.deps.Services.Auth.Login(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Login successful", resp)
	}
}

// Refresh handles POST /api/v1/auth/refresh
func (h *Handlers) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.RefreshReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		resp, err := h.deps.Services.Auth.Refresh(r.Context(), req)
		if err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Token refreshed", resp)
	}
}

// Logout handles POST /api/v1/auth/logout. The refresh token is revoked.
func (h *Handlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := callerClaims(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.RefreshReq
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		if err := h.deps.Services.Auth.Logout(r.Context(), claims, req); err != nil {
			handleServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Logged out successfully", nil)
	}
}
