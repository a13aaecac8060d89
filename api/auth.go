package api

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/devconnect/internal/token"
	"github.com/garnizeh/devconnect/internal/validate"
	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

const maxBodyBytes = 1 << 20

type AuthHandler struct {
	users  repository.UserRepo
	tokens *token.Manager
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, tm *token.Manager) *AuthHandler {
	return &AuthHandler{users: ur, tokens: tm}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

var registerRules = validate.Rules{
	validate.NonEmpty("name", "Name shouldn't be empty"),
	validate.Email("email", "Email should be valid"),
	validate.MinLength("password", "Enter a password with 6 or more characters", 6),
}

var loginRules = validate.Rules{
	validate.Email("email", "Email should be valid"),
	validate.Exists("password", "password is required"),
}

// Register creates a user, derives a gravatar avatar from the email, and
// returns a signed token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := registerRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var req registerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "Server Error")
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       gravatarURL(req.Email),
		PasswordHash: string(hash),
		Created:      time.Now().UTC().UnixMilli(),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if err == repository.ErrDuplicateEmail {
			writeErrorList(w, http.StatusBadRequest, "User already exist")
			return
		}
		writeError(w, err)
		return
	}

	tokenStr, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

// Login verifies email and password and returns a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := loginRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeErrorList(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeErrorList(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	tokenStr, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "Server Error")
		return
	}

	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

// Current returns the authenticated caller's user record without the
// password hash.
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeMsg(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, user, http.StatusOK)
}

// gravatarURL derives the avatar the original app assigned at registration:
// 200px, pg-rated, with the "mystery man" fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
