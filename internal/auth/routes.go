package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/shopchat/internal/store"
)

// RegisterRoutes mounts the authentication routes.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", handleRegister(svc))
		r.Post("/login", handleLogin(svc))
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *publicUser `json:"user"`
}

type publicUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func toPublic(u *store.User) *publicUser {
	return &publicUser{UserID: u.UserID, Email: u.Email, Name: u.Name}
}

func handleRegister(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			http.Error(w, `{"error":"a valid email is required"}`, http.StatusBadRequest)
			return
		}
		if len(req.Password) < 6 {
			http.Error(w, `{"error":"password must be at least 6 characters"}`, http.StatusBadRequest)
			return
		}

		user, token, err := svc.Register(r.Context(), req.Email, req.Password, req.Name)
		if errors.Is(err, ErrEmailTaken) {
			http.Error(w, `{"error":"email already registered"}`, http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"failed to register"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(authResponse{Token: token, User: toPublic(user)})
	}
}

func handleLogin(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		user, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, `{"error":"invalid email or password"}`, http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"failed to log in"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(authResponse{Token: token, User: toPublic(user)})
	}
}
