package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gestor/internal/client/config"
	"github.com/dmitrijs2005/gestor/internal/client/models"
	"github.com/dmitrijs2005/gestor/internal/client/services"
	"github.com/dmitrijs2005/gestor/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	state services.Session

	restoreCalls int
	signinCreds  models.Credentials
	signinErr    error
	signupForm   models.SignupForm
	signupErr    error
	logoutCalls  int
}

func (f *fakeSession) RestoreSession(context.Context) services.Session {
	f.restoreCalls++
	return f.state
}

func (f *fakeSession) Signin(_ context.Context, creds models.Credentials) (models.User, error) {
	f.signinCreds = creds
	if f.signinErr != nil {
		return models.User{}, f.signinErr
	}
	u := models.User{ID: "42", Email: creds.Email, Name: "Ana"}
	f.state = services.Session{IsAuthenticated: true, CurrentUser: &u, AuthToken: "t"}
	return u, nil
}

func (f *fakeSession) Signup(_ context.Context, form models.SignupForm) (models.User, error) {
	f.signupForm = form
	if f.signupErr != nil {
		return models.User{}, f.signupErr
	}
	return models.User{ID: "43", Email: form.Email, Name: form.Name}, nil
}

func (f *fakeSession) Logout(context.Context) {
	f.logoutCalls++
	f.state = services.Session{}
}

func (f *fakeSession) Snapshot() services.Session { return f.state }
func (f *fakeSession) Phase() services.Phase      { return services.PhaseReady }

func testApp(session services.SessionService, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	a := newApp(&config.Config{}, session, logging.Nop(), strings.NewReader(input), &out)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return a, &out
}

func stubInputs(t *testing.T, texts []string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no password")
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// ---- Register ----

func TestRegister_Success(t *testing.T) {
	f := &fakeSession{}
	a, out := testApp(f, "")
	stubInputs(t, []string{"Ana", "ana@example.cl"}, "pw", "pw")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, models.SignupForm{Name: "Ana", Email: "ana@example.cl", Password: "pw", ConfirmPassword: "pw"}, f.signupForm)
	assert.Contains(t, out.String(), "Welcome, Ana!")
}

func TestRegister_SignupErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"duplicate", &services.SignupError{Code: services.SignupCodeDuplicateEmail, Err: services.ErrDuplicateEmail}, "already registered"},
		{"mismatch", &services.SignupError{Code: services.SignupCodePasswordMismatch, Err: services.ErrPasswordMismatch}, "do not match"},
		{"other", errors.New("backend down"), "Registration failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSession{signupErr: tt.err}
			a, out := testApp(f, "")
			stubInputs(t, []string{"Ana", "ana@example.cl"}, "a", "b")

			require.Error(t, a.Register(context.Background()))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRegister_InputError(t *testing.T) {
	f := &fakeSession{}
	a, _ := testApp(f, "")
	stubInputs(t, []string{"Ana", "ana@example.cl"})

	require.Error(t, a.Register(context.Background()))
	assert.Empty(t, f.signupForm.Email, "signup must not run without a password")
}

// ---- Login / Logout ----

func TestLogin_Success(t *testing.T) {
	f := &fakeSession{}
	a, out := testApp(f, "")
	stubInputs(t, []string{"ana@example.cl"}, "pw")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, models.Credentials{Email: "ana@example.cl", Password: "pw"}, f.signinCreds)
	assert.Contains(t, out.String(), "Login successful")
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(ana@example.cl)", a.getStatus())
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeSession{signinErr: services.ErrAuthenticationFailure}
	a, out := testApp(f, "")
	stubInputs(t, []string{"ana@example.cl"}, "bad")

	require.ErrorIs(t, a.Login(context.Background()), services.ErrAuthenticationFailure)
	assert.Contains(t, out.String(), "Login unsuccessful")
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "", a.getStatus())
}

func TestLogout(t *testing.T) {
	u := models.User{Email: "ana@example.cl"}
	f := &fakeSession{state: services.Session{IsAuthenticated: true, CurrentUser: &u}}
	a, out := testApp(f, "")

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, f.logoutCalls)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out")
}

// ---- Status / CheckRut ----

func TestStatus_LoggedOut(t *testing.T) {
	a, out := testApp(&fakeSession{}, "")
	require.NoError(t, a.Status(context.Background()))
	assert.Equal(t, "Not logged in\n", out.String())
}

func TestStatus_FullSession(t *testing.T) {
	u := models.User{Name: "Ana", Email: "ana@example.cl", Confirmed: true}
	f := &fakeSession{state: services.Session{
		IsAuthenticated:     true,
		CurrentUser:         &u,
		IsSuperAdmin:        true,
		PrimaryBusinessLink: &models.UserBusinessLink{BusinessID: "b-9", Role: models.RoleOwner},
		BusinessDetail:      &models.Business{ID: "b-9", Name: "Almacén Don Pepe", Rut: "760864285"},
		Subscriptions: []models.Subscription{{
			Plan: "pro", Status: models.SubscriptionActive,
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		PendingGuestInvitations: []models.GuestInvitation{{ID: "g1"}},
		FailedSteps:             []string{services.StepSuperAdmin},
	}}
	a, out := testApp(f, "")

	require.NoError(t, a.Status(context.Background()))
	s := out.String()
	assert.Contains(t, s, "Ana <ana@example.cl>")
	assert.Contains(t, s, "superadmin")
	assert.Contains(t, s, "Almacén Don Pepe (76.086.428-5)")
	assert.Contains(t, s, "Role:      owner")
	assert.Contains(t, s, "Plan:      pro")
	assert.Contains(t, s, "Invites:   1 pending")
	assert.Contains(t, s, "could not load superadmin")
	assert.Equal(t, "(ana@example.cl owner)", a.getStatus())
}

func TestStatus_LinkWithoutDetailOrSubscription(t *testing.T) {
	u := models.User{Name: "Ana", Email: "ana@example.cl"}
	f := &fakeSession{state: services.Session{
		IsAuthenticated:     true,
		CurrentUser:         &u,
		PrimaryBusinessLink: &models.UserBusinessLink{BusinessID: "b-3", Role: models.RoleEmployee},
	}}
	a, out := testApp(f, "")

	require.NoError(t, a.Status(context.Background()))
	s := out.String()
	assert.Contains(t, s, "email not confirmed")
	assert.Contains(t, s, "Business:  b-3")
	assert.Contains(t, s, "no active subscription")
}

func TestCheckRut(t *testing.T) {
	a, out := testApp(&fakeSession{}, "")

	require.NoError(t, a.CheckRut(context.Background(), "12.345.678-5"))
	assert.Contains(t, out.String(), "12.345.678-5 is valid (12345678-5)")

	out.Reset()
	require.Error(t, a.CheckRut(context.Background(), "12.345.678-9"))
	assert.Contains(t, out.String(), "not a valid RUT")
}

// ---- Run / NewApp ----

func TestRun_RestoresThenReadsCommands(t *testing.T) {
	capturePrintln(t)

	u := models.User{Email: "ana@example.cl"}
	f := &fakeSession{state: services.Session{IsAuthenticated: true, CurrentUser: &u}}
	a, out := testApp(f, "logout\nexit\n")

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 1, f.restoreCalls)
	assert.Equal(t, 1, f.logoutCalls)
	assert.Contains(t, out.String(), "Session restored for ana@example.cl")
}

func TestNewApp_SQLiteStore(t *testing.T) {
	capturePrintln(t)

	path := filepath.Join(t.TempDir(), "session.db")
	cfg := &config.Config{
		ServerBaseURL:  "http://127.0.0.1:1/api",
		RequestTimeout: time.Second,
		DatabasePath:   path,
	}

	a, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)

	var out bytes.Buffer
	a.reader = rdr("status\nrut 7.593.886-1\nexit\n")
	a.out = &out

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "Not logged in")
	assert.Contains(t, out.String(), "7.593.886-1 is valid")

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file must be created")
}

func TestNewApp_InMemoryStore(t *testing.T) {
	cfg := &config.Config{ServerBaseURL: "http://127.0.0.1:1/api", RequestTimeout: time.Second}

	a, err := NewApp(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	assert.Empty(t, a.closers)
	a.Close()
}

func TestNewApp_BadURL(t *testing.T) {
	cfg := &config.Config{ServerBaseURL: "ftp://example.cl", RequestTimeout: time.Second}

	_, err := NewApp(context.Background(), cfg, logging.Nop())
	require.Error(t, err)
}
