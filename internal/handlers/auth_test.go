package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesUserAndLogsIn(t *testing.T) {
	router, userRepo, _ := newTestRouter()

	rec := doPostForm(router, "/registro/", url.Values{
		"username":  {"ana"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("expected exactly 1 user, got %d", len(userRepo.users))
	}
	user := userRepo.users[1]
	if user.Username != "ana" {
		t.Fatalf("unexpected username %q", user.Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(testPassword)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !hasSessionCookie(rec) {
		t.Fatal("expected registration to establish a session")
	}
}

func TestRegisterPasswordMismatchRendersFormWithoutSession(t *testing.T) {
	router, userRepo, _ := newTestRouter()

	rec := doPostForm(router, "/registro/", url.Values{
		"username":  {"ana"},
		"password1": {testPassword},
		"password2": {"something else"},
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(userRepo.users) != 0 {
		t.Fatalf("expected no user created, got %d", len(userRepo.users))
	}
	if hasSessionCookie(rec) {
		t.Fatal("expected no session on validation failure")
	}
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	router, userRepo, _ := newTestRouter()

	rec := doPostForm(router, "/registro/", url.Values{
		"username":  {"ana"},
		"password1": {"short"},
		"password2": {"short"},
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(userRepo.users) != 0 {
		t.Fatalf("expected no user created, got %d", len(userRepo.users))
	}
}

func TestRegisterDuplicateUsernameRejected(t *testing.T) {
	router, userRepo, _ := newTestRouter()
	register(t, router, "ana")

	rec := doPostForm(router, "/registro/", url.Values{
		"username":  {"ana"},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(userRepo.users))
	}
}

func TestLoginWrongPasswordLeavesSessionUnauthenticated(t *testing.T) {
	router, _, _ := newTestRouter()
	register(t, router, "ana")

	rec := doPostForm(router, "/login/", url.Values{
		"username": {"ana"},
		"password": {"not the password"},
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hasSessionCookie(rec) {
		t.Fatal("expected no session after failed login")
	}
}

func TestLoginUnknownUserGetsSameResponseAsWrongPassword(t *testing.T) {
	router, _, _ := newTestRouter()

	rec := doPostForm(router, "/login/", url.Values{
		"username": {"nobody"},
		"password": {testPassword},
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if hasSessionCookie(rec) {
		t.Fatal("expected no session for unknown user")
	}
}

func TestLoginHonorsNext(t *testing.T) {
	router, _, _ := newTestRouter()
	register(t, router, "ana")

	rec := doPostForm(router, "/login/", url.Values{
		"username": {"ana"},
		"password": {testPassword},
		"next":     {"/tarea/9"},
	}, nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/tarea/9" {
		t.Fatalf("expected redirect to /tarea/9, got %q", location)
	}
	if !hasSessionCookie(rec) {
		t.Fatal("expected session after successful login")
	}
}

func TestLoginFormRedirectsWhenAlreadyAuthenticated(t *testing.T) {
	router, _, _ := newTestRouter()
	cookie := register(t, router, "ana")

	rec := doGet(router, "/login/", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
}

func TestRegisterFormRedirectsWhenAlreadyAuthenticated(t *testing.T) {
	router, _, _ := newTestRouter()
	cookie := register(t, router, "ana")

	rec := doGet(router, "/registro/", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
}

func TestLogoutClearsSessionAndRedirectsToLogin(t *testing.T) {
	router, _, _ := newTestRouter()
	cookie := register(t, router, "ana")

	rec := doGet(router, "/logout/", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login/" {
		t.Fatalf("expected redirect to /login/, got %q", location)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}
