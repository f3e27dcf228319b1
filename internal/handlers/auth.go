package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tareas-app/webapp/internal/services"
	"github.com/tareas-app/webapp/internal/store"
	"github.com/tareas-app/webapp/internal/templates"
	"github.com/tareas-app/webapp/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8
const invalidCredentialsMessage = "invalid username or password"

// AuthHandler provides the login, logout and registration pages.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	sessionTTL  time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, sessionSecret string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(sessionSecret),
		sessionTTL:  defaultSessionTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, sessionSecret string) {
	handler := NewAuthHandler(userService, sessionSecret)

	r.Get("/login/", handler.ShowLoginForm)
	r.Post("/login/", handler.Login)
	r.Get("/registro/", handler.ShowRegisterForm)
	r.Post("/registro/", handler.Register)
	r.Get("/logout/", handler.Logout)
}

type loginPage struct {
	Username string
	Next     string
	Error    string
}

type registerPage struct {
	Username string
	Email    string
	Next     string
	Errors   map[string]string
}

// ShowLoginForm renders the login form, or redirects to the task list
// when the request already carries a session.
func (h *AuthHandler) ShowLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := sessionUserID(r, h.secret); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.renderLogin(w, loginPage{Next: r.URL.Query().Get("next")})
}

// Login verifies credentials and establishes a session. Unknown
// usernames and wrong passwords produce the same generic message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if username == "" || password == "" {
		h.renderLogin(w, loginPage{Username: username, Next: next, Error: invalidCredentialsMessage})
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderLogin(w, loginPage{Username: username, Next: next, Error: invalidCredentialsMessage})
			return
		}
		internalError(w)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.renderLogin(w, loginPage{Username: username, Next: next, Error: invalidCredentialsMessage})
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		internalError(w)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// ShowRegisterForm renders the registration form, or redirects to the
// task list when the request already carries a session.
func (h *AuthHandler) ShowRegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, err := sessionUserID(r, h.secret); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.renderRegister(w, registerPage{Next: r.URL.Query().Get("next")})
}

// Register creates a new account and logs it in. Validation failures
// re-render the form with field errors and do not create a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password1 := r.FormValue("password1")
	password2 := r.FormValue("password2")
	next := r.FormValue("next")

	fieldErrors := map[string]string{}
	if username == "" {
		fieldErrors["username"] = "username is required"
	} else if _, err := h.userService.GetByUsername(r.Context(), username); err == nil {
		fieldErrors["username"] = "username already exists"
	} else if !errors.Is(err, store.ErrNotFound) {
		internalError(w)
		return
	}
	if len(password1) < minPasswordLength {
		fieldErrors["password1"] = "password must be at least 8 characters"
	}
	if password1 != password2 {
		fieldErrors["password2"] = "passwords do not match"
	}

	if len(fieldErrors) > 0 {
		h.renderRegister(w, registerPage{Username: username, Email: email, Next: next, Errors: fieldErrors})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password1), bcrypt.DefaultCost)
	if err != nil {
		internalError(w)
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		internalError(w)
		return
	}

	// Registration implies login.
	if err := h.startSession(w, user.ID); err != nil {
		internalError(w)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// Logout clears the session regardless of its prior state and
// redirects to the login form.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/login/", http.StatusFound)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int) error {
	token, err := issueSessionToken(userID, h.secret, h.sessionTTL)
	if err != nil {
		return err
	}
	setSessionCookie(w, token, h.sessionTTL)
	return nil
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, page loginPage) {
	if err := templates.Render(w, http.StatusOK, "login.html", page); err != nil {
		internalError(w)
	}
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, page registerPage) {
	if err := templates.Render(w, http.StatusOK, "register.html", page); err != nil {
		internalError(w)
	}
}
