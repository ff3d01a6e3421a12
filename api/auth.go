package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joblink/joblink/internal/auth"
	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
	"github.com/joblink/joblink/pkg/repository"
)

type AuthHandler struct {
	userRepo repository.UserRepo
	tokens   *auth.TokenIssuer
	// cookieTTL bounds the login cookies; it matches the refresh token TTL.
	cookieTTL time.Duration
}

func NewAuthHandler(ur repository.UserRepo, tokens *auth.TokenIssuer, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, tokens: tokens, cookieTTL: cookieTTL}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
}

func (req *registerRequest) validate() map[string]string {
	errs := map[string]string{}
	if n := len(strings.TrimSpace(req.Name)); n < 2 || n > 50 {
		errs["name"] = "Name must be between 2 and 50 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		errs["email"] = "Invalid email address"
	}
	if len(req.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters long"
	}
	if req.Role != "" && !models.Role(req.Role).Valid() {
		errs["role"] = "Role must be one of admin, employer, developer"
	}
	if req.Phone != "" && strings.TrimSpace(req.Phone) == "" {
		errs["phone"] = "Phone number cannot be empty if provided"
	}
	if req.Avatar != "" {
		if u, err := url.Parse(req.Avatar); err != nil || u.Scheme == "" || u.Host == "" {
			errs["avatar"] = "Avatar must be a valid URL"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) validate() map[string]string {
	errs := map[string]string{}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		errs["email"] = "Invalid email address"
	}
	if req.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body", nil))
		return
	}
	if errs := req.validate(); errs != nil {
		writeError(w, apperr.Validation("Validation failed", errs))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleDeveloper
	}

	ctx := r.Context()

	// Friendly pre-check; the unique index on users.email is the backstop.
	existing, err := h.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		writeError(w, apperr.Internal("check existing user", err))
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("This email is already registered. Please use a different email or try logging in.").WithStatus(http.StatusConflict))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, apperr.Internal("hash password", err))
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        strings.TrimSpace(req.Phone),
		AvatarURL:    req.Avatar,
	}

	id, err := h.userRepo.CreateUser(ctx, &user)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.userRepo.GetUserByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, apperr.Internal("load created user", err))
		return
	}

	writeData(w, http.StatusCreated, created.Public(), "User created successfully")
}

type loginResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body", nil))
		return
	}
	if errs := req.validate(); errs != nil {
		writeError(w, apperr.Validation("Validation failed", errs))
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, apperr.Internal("lookup user", err))
		return
	}
	if user == nil {
		writeError(w, apperr.NotFound("User doesn't exist with this email"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, apperr.Auth("Invalid credentials"))
		return
	}

	accessToken, err := h.tokens.AccessToken(user.ID)
	if err != nil {
		writeError(w, apperr.Internal("issue access token", err))
		return
	}
	refreshToken, err := h.tokens.RefreshToken(user.ID)
	if err != nil {
		writeError(w, apperr.Internal("issue refresh token", err))
		return
	}

	// last-issued wins; no rotation history is kept
	if err := h.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		writeError(w, apperr.Internal("persist refresh token", err))
		return
	}

	setTokenCookie(w, "accessToken", accessToken, h.cookieTTL)
	setTokenCookie(w, "refreshToken", refreshToken, h.cookieTTL)

	writeData(w, http.StatusOK, loginResponse{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "User logged in successfully")
}

// DebugUsers lists every account without credential fields.
func (h *AuthHandler) DebugUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListUsers(r.Context())
	if err != nil {
		writeError(w, apperr.Internal("list users", err))
		return
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	writeJSON(w, out, http.StatusOK)
}

func setTokenCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
