package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"questpath/internal/metrics"
	"questpath/internal/model"
	"questpath/internal/repository"
	"questpath/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenKey is the fixed name the session token is stored under.
const TokenKey = "access_token"

// AuthSession holds the token and user of the one logged-in user.
// It is anonymous until Login or Restore succeeds.
type AuthSession struct {
	mu sync.RWMutex

	auth     Authenticator
	store    TokenStore
	verifier TokenVerifier
	ledger   *QuestLedger

	token         string
	userID        string
	sessionID     uuid.UUID
	authenticated bool
}

// NewAuthSession wires a session. verifier may be nil.
func NewAuthSession(auth Authenticator, store TokenStore, ledger *QuestLedger, verifier TokenVerifier) *AuthSession {
	return &AuthSession{
		auth:     auth,
		store:    store,
		verifier: verifier,
		ledger:   ledger,
	}
}

func loginMethod(creds model.Credentials) string {
	if creds.IsIDToken() {
		return "firebase"
	}
	return "password"
}

func (s *AuthSession) Login(ctx context.Context, creds model.Credentials) (model.UserProgress, error) {
	log := logger.Logger()
	method := loginMethod(creds)

	res, err := s.authenticate(ctx, creds)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(method, "failure").Inc()
		log.Warn("login failed", zap.String("method", method), zap.Error(err))
		return model.UserProgress{}, err
	}

	if err := s.store.SaveToken(ctx, TokenKey, res.Token); err != nil {
		metrics.LoginAttempts.WithLabelValues(method, "failure").Inc()
		log.Error("failed to persist session token", zap.Error(err))
		return model.UserProgress{}, err
	}

	progress := s.enter(res)

	metrics.LoginAttempts.WithLabelValues(method, "success").Inc()
	log.Info("user logged in",
		zap.String("method", method),
		zap.String("user_id", progress.ID))

	return progress, nil
}

func (s *AuthSession) authenticate(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	var (
		res *model.LoginResult
		err error
	)

	switch {
	case creds.IsIDToken():
		if s.verifier != nil {
			if err := s.verifier.VerifyIDToken(ctx, creds.IDToken); err != nil {
				return nil, &AuthenticationError{Reason: "invalid Firebase ID token", Err: err}
			}
		}
		res, err = s.auth.FirebaseLogin(ctx, creds.IDToken)
	case strings.TrimSpace(creds.Username) != "" && creds.Password != "":
		res, err = s.auth.Login(ctx, creds.Username, creds.Password)
	default:
		return nil, &AuthenticationError{Reason: "username and password or an ID token are required"}
	}

	if err != nil {
		if errors.Is(err, ErrNetwork) || errors.Is(err, ErrAuthentication) {
			return nil, err
		}
		return nil, &AuthenticationError{Reason: err.Error(), Err: err}
	}
	if res == nil || res.Token == "" {
		return nil, &AuthenticationError{Reason: "backend returned no access token"}
	}
	if res.User.ID == "" {
		return nil, &AuthenticationError{Reason: "backend returned no user"}
	}
	return res, nil
}

// enter seeds the ledger and switches the session to authenticated.
func (s *AuthSession) enter(res *model.LoginResult) model.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authenticated && s.userID != res.User.ID {
		s.ledger.Reset(s.userID)
	}
	s.ledger.Seed(res.User, res.CompletedQuests)

	s.token = res.Token
	s.userID = res.User.ID
	s.sessionID = uuid.New()
	s.authenticated = true

	progress, _ := s.ledger.Progress(res.User.ID)
	return progress
}

// Logout returns the session to anonymous. Logging out twice is not an error.
func (s *AuthSession) Logout(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	wasAuthenticated := s.authenticated

	s.token = ""
	s.userID = ""
	s.sessionID = uuid.Nil
	s.authenticated = false

	if wasAuthenticated {
		s.ledger.Reset(userID)
	}
	s.mu.Unlock()

	if err := s.store.DeleteToken(ctx, TokenKey); err != nil {
		logger.Logger().Error("failed to delete session token", zap.Error(err))
		return err
	}

	if wasAuthenticated {
		logger.Logger().Info("user logged out", zap.String("user_id", userID))
	}
	return nil
}

// CurrentUser returns a copy of the logged-in user's progress, or nil.
func (s *AuthSession) CurrentUser() *model.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.authenticated {
		return nil
	}
	progress, ok := s.ledger.Progress(s.userID)
	if !ok {
		return nil
	}
	return &progress
}

// Restore resumes a session from a previously stored token. It returns nil
// progress and no error when no token is stored. A token the backend rejects
// is deleted.
func (s *AuthSession) Restore(ctx context.Context) (*model.UserProgress, error) {
	log := logger.Logger()

	token, err := s.store.GetToken(ctx, TokenKey)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && token == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res, err := s.auth.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			log.Info("stored session token rejected", zap.Error(err))
			if delErr := s.store.DeleteToken(ctx, TokenKey); delErr != nil {
				log.Error("failed to delete stale session token", zap.Error(delErr))
			}
		}
		return nil, err
	}
	if res == nil || res.User.ID == "" {
		return nil, &AuthenticationError{Reason: "backend returned no user"}
	}
	if res.Token == "" {
		res.Token = token
	} else if res.Token != token {
		if err := s.store.SaveToken(ctx, TokenKey, res.Token); err != nil {
			return nil, err
		}
	}

	progress := s.enter(res)
	log.Info("session restored", zap.String("user_id", progress.ID))
	return &progress, nil
}

// Token returns the current bearer token, empty when anonymous.
func (s *AuthSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthSession) SessionID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}
