package service

import (
	"context"
	"errors"
	"fmt"

	"questpath/internal/model"
)

var (
	ErrInvalidQuest     = errors.New("invalid quest")
	ErrAuthentication   = errors.New("authentication failed")
	ErrNetwork          = errors.New("backend request failed")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrQuestNotFound    = errors.New("quest not found")
	ErrLedgerReset      = errors.New("ledger was reset while the completion was in flight")
)

// InvalidQuestError is a programming error: the caller handed the ledger a
// quest it cannot award.
type InvalidQuestError struct {
	QuestID string
	Reason  string
}

func (e *InvalidQuestError) Error() string {
	if e.QuestID == "" {
		return fmt.Sprintf("invalid quest: %s", e.Reason)
	}
	return fmt.Sprintf("invalid quest %q: %s", e.QuestID, e.Reason)
}

func (e *InvalidQuestError) Is(target error) bool {
	return target == ErrInvalidQuest
}

type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// NetworkError wraps an unreachable backend or a non-2xx response.
// StatusCode is zero when no response was received.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend responded %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// asNetworkError keeps typed collaborator errors and wraps anything else.
func asNetworkError(op string, err error) error {
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrAuthentication) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}

type SessionServiceI interface {
	Login(ctx context.Context, creds model.Credentials) (model.UserProgress, error)
	Logout(ctx context.Context) error
	CurrentUser() *model.UserProgress
	Token() string
}

type QuestServiceI interface {
	ListQuests(ctx context.Context, userID string) ([]model.QuestStatus, error)
	CompleteQuest(ctx context.Context, userID, questID string) (model.CompletionResult, error)
	Completions(userID string) []model.CompletionRecord
}

type WorkflowServiceI interface {
	Current(ctx context.Context, userID string) (model.WorkflowState, model.WorkflowClassification, error)
}

// Authenticator is the backend auth collaborator.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*model.LoginResult, error)
	FirebaseLogin(ctx context.Context, idToken string) (*model.LoginResult, error)
	VerifyToken(ctx context.Context, token string) (*model.LoginResult, error)
}

// TokenVerifier checks a Firebase ID token locally before it is exchanged.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) error
}

// TokenStore persists the session token. GetToken returns
// repository.ErrNotFound when nothing is stored.
type TokenStore interface {
	GetToken(ctx context.Context, key string) (string, error)
	SaveToken(ctx context.Context, key, token string) error
	DeleteToken(ctx context.Context, key string) error
}

type CompletionReporter interface {
	ReportCompletion(ctx context.Context, userID, questID string) error
}

type QuestCatalog interface {
	ListQuests(ctx context.Context) ([]*model.Quest, error)
}

type WorkflowSource interface {
	FetchWorkflowState(ctx context.Context, userID string) (*model.WorkflowSnapshot, error)
}

// CompletionListener is told about every completion that awarded XP.
type CompletionListener interface {
	OnCompletion(userID string, result model.CompletionResult)
}
