package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
	"github.com/appdotbuilder/invoice-manager-internal/internal/auth"
	"github.com/appdotbuilder/invoice-manager-internal/internal/httpx"
	"github.com/appdotbuilder/invoice-manager-internal/internal/models"
	"github.com/appdotbuilder/invoice-manager-internal/internal/validation"
)

type AuthHandler struct {
	DB       *gorm.DB
	Secret   string
	TokenTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, secret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, Secret: secret, TokenTTL: ttl}
}

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/login", h.login)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if !v.Empty() {
		httpx.Error(w, apperr.Validation(v))
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	user := models.User{Email: req.Email, Password: string(hash)}
	if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.Error(w, apperr.Conflict("user already exists"))
			return
		}
		httpx.Error(w, err)
		return
	}
	token, err := auth.GenerateToken(user.ID, h.Secret, h.TokenTTL)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, authResponse{User: &user, Token: token})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var user models.User
	// Unknown email and wrong password answer identically so the endpoint
	// does not leak which accounts exist.
	if err := h.DB.WithContext(r.Context()).Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		httpx.Error(w, apperr.ErrInvalidCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		httpx.Error(w, apperr.ErrInvalidCredentials)
		return
	}
	token, err := auth.GenerateToken(user.ID, h.Secret, h.TokenTTL)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, authResponse{User: &user, Token: token})
}
