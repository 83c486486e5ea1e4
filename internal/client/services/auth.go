// Package services contains application services for the gestor client.
// This file defines the session service: restoring a persisted session at
// start-up, sign-in, sign-up and logout, and the best-effort enrichment of
// the session with business, subscription and invitation data.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gestor/internal/client/auth"
	"github.com/dmitrijs2005/gestor/internal/client/client"
	"github.com/dmitrijs2005/gestor/internal/client/credentials"
	"github.com/dmitrijs2005/gestor/internal/client/models"
	"github.com/dmitrijs2005/gestor/internal/common"
	"github.com/dmitrijs2005/gestor/internal/logging"
)

// Enrichment step names, as reported in Session.FailedSteps and logs.
const (
	StepUser          = "user"
	StepInvitations   = "guest_invitations"
	StepBusinessLinks = "business_links"
	StepSubscriptions = "subscriptions"
	StepBusiness      = "business"
	StepSuperAdmin    = "superadmin"
)

// SessionService owns the single Session of the application.
//
// Contract:
//   - RestoreSession: rebuild the session from the persisted token. Never
//     fails; every problem degrades to a logged-out, ready session.
//   - Signin / Signup: authenticate, persist the token and enrich the
//     session. Only the primary credential call can fail the operation.
//   - Logout: best-effort remote logout, then unconditional local reset.
//   - Snapshot / Phase: read the current state without blocking on a
//     running operation.
//
// Operations are serialized; concurrent callers wait for each other.
type SessionService interface {
	RestoreSession(ctx context.Context) Session
	Signin(ctx context.Context, creds models.Credentials) (models.User, error)
	Signup(ctx context.Context, form models.SignupForm) (models.User, error)
	Logout(ctx context.Context)
	Snapshot() Session
	Phase() Phase
}

type sessionService struct {
	gateway client.Client
	store   credentials.Store
	log     logging.Logger
	now     func() time.Time

	// opMu serializes operations; stateMu guards session reads and commits.
	opMu    sync.Mutex
	stateMu sync.RWMutex
	session Session
	phase   atomic.Int32
}

type Option func(*sessionService)

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *sessionService) { s.now = now }
}

// NewSessionService constructs a SessionService in PhaseNotStarted.
func NewSessionService(gateway client.Client, store credentials.Store, log logging.Logger, opts ...Option) SessionService {
	if log == nil {
		log = logging.Nop()
	}
	s := &sessionService{
		gateway: gateway,
		store:   store,
		log:     log.With("component", "session"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) Snapshot() Session {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	c := s.session.clone()
	c.Phase = s.Phase()
	return c
}

func (s *sessionService) Phase() Phase {
	return Phase(s.phase.Load())
}

func (s *sessionService) commit(next Session, phase Phase) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.session = next
	s.phase.Store(int32(phase))
}

// RestoreSession rebuilds the session from the persisted token.
//
// Without a token, or with a token the backend rejects, the result is a
// logged-out session in PhaseReady; a rejected token is erased. With a
// valid token the user record and the enrichment lookups are fetched in
// sequence, each failure being logged and skipped.
func (s *sessionService) RestoreSession(ctx context.Context) Session {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.phase.Store(int32(PhaseRestoring))

	token, err := s.store.Get(ctx, credentials.TokenKey)
	if err != nil {
		s.log.Error(ctx, "failed to read persisted token", "err", err)
		s.commit(Session{}, PhaseReady)
		return s.Snapshot()
	}
	if token == "" {
		s.log.Debug(ctx, "no persisted token")
		s.commit(Session{}, PhaseReady)
		return s.Snapshot()
	}

	var userID string
	if auth.Inspect(token).Expired(s.now()) {
		err = common.ErrTokenExpired
	} else {
		userID, err = s.gateway.VerifyToken(ctx)
	}
	if err != nil {
		s.log.Info(ctx, "persisted token rejected, continuing logged out", "err", err)
		s.eraseToken(ctx)
		s.commit(Session{}, PhaseReady)
		return s.Snapshot()
	}

	next := Session{AuthToken: token, UserID: userID}

	user, ok := fetch(ctx, s.log, &next, StepUser, func(ctx context.Context) (models.User, error) {
		return s.gateway.GetUserByID(ctx, userID)
	})
	if !ok {
		// without the user record the session cannot be authenticated; the
		// token is kept so a later restore can retry. Business links could
		// still be fetched by userID but are not: nothing would own them.
		s.commit(Session{FailedSteps: next.FailedSteps}, PhaseReady)
		return s.Snapshot()
	}

	next.CurrentUser = &user
	next.IsAuthenticated = true

	s.loadInvitations(ctx, &next)
	s.loadBusiness(ctx, &next, true)
	s.loadSuperAdmin(ctx, &next)

	s.commit(next, PhaseReady)
	s.log.Info(ctx, "session restored", "user_id", userID, "failed_steps", len(next.FailedSteps))
	return s.Snapshot()
}

// Signin authenticates with creds. On failure the session is left as it
// was and the error wraps ErrAuthenticationFailure.
func (s *sessionService) Signin(ctx context.Context, creds models.Credentials) (models.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	res, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthenticationFailure, err)
	}
	if res.Token == "" {
		return models.User{}, fmt.Errorf("%w: %w", ErrAuthenticationFailure, ErrMissingToken)
	}

	next := s.authenticated(ctx, res)

	s.loadSuperAdmin(ctx, &next)
	s.loadInvitations(ctx, &next)
	s.loadBusiness(ctx, &next, true)

	s.commit(next, PhaseReady)
	s.log.Info(ctx, "signed in", "user_id", res.User.ID)
	return res.User, nil
}

// Signup registers a new account. A taken email yields a *SignupError with
// SignupCodeDuplicateEmail; mismatched passwords yield
// SignupCodePasswordMismatch without contacting the backend.
func (s *sessionService) Signup(ctx context.Context, form models.SignupForm) (models.User, error) {
	if form.Password != form.ConfirmPassword {
		return models.User{}, &SignupError{Code: SignupCodePasswordMismatch, Err: ErrPasswordMismatch}
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	res, err := s.gateway.RegisterUser(ctx, form)
	if err != nil {
		if errors.Is(err, client.ErrDuplicateEmail) {
			return models.User{}, &SignupError{Code: SignupCodeDuplicateEmail, Err: ErrDuplicateEmail}
		}
		return models.User{}, fmt.Errorf("register error: %w", err)
	}
	if res.Token == "" {
		return models.User{}, fmt.Errorf("register error: %w", ErrMissingToken)
	}

	next := s.authenticated(ctx, res)

	s.loadInvitations(ctx, &next)
	s.loadBusiness(ctx, &next, false)

	s.commit(next, PhaseReady)
	s.log.Info(ctx, "signed up", "user_id", res.User.ID)
	return res.User, nil
}

// Logout tells the backend (best effort), erases the persisted token and
// resets the session.
func (s *sessionService) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.gateway.Logout(ctx); err != nil {
		s.log.Warn(ctx, "remote logout failed", "err", err)
	}
	s.eraseToken(ctx)

	phase := s.Phase()
	if phase == PhaseRestoring {
		phase = PhaseReady
	}
	s.commit(Session{}, phase)
}

// authenticated persists the token of res and returns the base session for
// the enrichment that follows.
func (s *sessionService) authenticated(ctx context.Context, res models.AuthResult) Session {
	if err := s.store.Set(ctx, credentials.TokenKey, res.Token); err != nil {
		s.log.Error(ctx, "failed to persist token", "err", err)
	}
	user := res.User
	return Session{
		AuthToken:       res.Token,
		UserID:          user.ID,
		CurrentUser:     &user,
		IsAuthenticated: true,
	}
}

func (s *sessionService) eraseToken(ctx context.Context) {
	if err := s.store.Remove(ctx, credentials.TokenKey); err != nil {
		s.log.Warn(ctx, "failed to erase persisted token", "err", err)
	}
}

func (s *sessionService) loadInvitations(ctx context.Context, sess *Session) {
	email := sess.CurrentUser.Email
	inv, ok := fetch(ctx, s.log, sess, StepInvitations, func(ctx context.Context) ([]models.GuestInvitation, error) {
		return s.gateway.FindPendingGuestInvitations(ctx, email)
	})
	if ok {
		sess.PendingGuestInvitations = inv
	}
}

// loadBusiness selects the first business link and fetches its
// subscriptions and, when withDetail is set, the business record.
func (s *sessionService) loadBusiness(ctx context.Context, sess *Session, withDetail bool) {
	userID := sess.UserID
	links, ok := fetch(ctx, s.log, sess, StepBusinessLinks, func(ctx context.Context) ([]models.UserBusinessLink, error) {
		return s.gateway.GetUserBusinessLinksByUserID(ctx, userID)
	})
	if !ok || len(links) == 0 {
		return
	}

	link := links[0]
	sess.PrimaryBusinessLink = &link

	subs, ok := fetch(ctx, s.log, sess, StepSubscriptions, func(ctx context.Context) ([]models.Subscription, error) {
		return s.gateway.GetSubscriptionsByBusinessID(ctx, link.BusinessID)
	})
	if ok {
		sess.Subscriptions = subs
	}

	if !withDetail {
		return
	}
	business, ok := fetch(ctx, s.log, sess, StepBusiness, func(ctx context.Context) (models.Business, error) {
		return s.gateway.GetBusinessByID(ctx, link.BusinessID)
	})
	if ok {
		sess.BusinessDetail = &business
	}
}

func (s *sessionService) loadSuperAdmin(ctx context.Context, sess *Session) {
	admin, ok := fetch(ctx, s.log, sess, StepSuperAdmin, s.gateway.CheckSuperAdmin)
	if ok {
		sess.IsSuperAdmin = admin
	}
}

// fetch runs one enrichment lookup. A failure is logged and recorded in
// sess.FailedSteps; the caller decides what to skip.
func fetch[T any](ctx context.Context, log logging.Logger, sess *Session, step string, fn func(context.Context) (T, error)) (T, bool) {
	v, err := fn(ctx)
	if err != nil {
		log.Warn(ctx, "session enrichment step failed", "step", step, "err", err)
		sess.FailedSteps = append(sess.FailedSteps, step)
		var zero T
		return zero, false
	}
	return v, true
}
