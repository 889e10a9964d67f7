package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/services"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthHandler struct {
	auth     *services.AuthService
	validate *validator.Validate
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validator.New()}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload registerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.BadRequest("invalid JSON body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, apperrors.BadRequest("invalid register request: %v", err))
		return
	}

	user, err := h.auth.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login exchanges form-encoded credentials for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseForm(); err != nil {
		writeError(w, apperrors.BadRequest("invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, apperrors.BadRequest("username and password are required"))
		return
	}

	tokens, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {

	token, ok := bearerToken(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}

	user, err := h.auth.Logout(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.BadRequest("invalid JSON body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, apperrors.BadRequest("refresh_token is required"))
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), payload.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {

	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, services.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		IsActive: user.IsActive,
	})
}
