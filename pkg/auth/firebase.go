package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"questpath/pkg/logger"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// CredentialsEnv holds base64 encoded service account JSON. When set it
// takes precedence over the credentials file.
const CredentialsEnv = "FIREBASE_SERVICE_ACCOUNT_JSON"

var ErrEmptyIDToken = errors.New("empty id token")

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens with the Admin SDK before they
// are sent to the backend.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func credentialsOption(cfg FirebaseConfig) (option.ClientOption, error) {
	if encoded := os.Getenv(CredentialsEnv); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", CredentialsEnv, err)
		}
		return option.WithCredentialsJSON(decoded), nil
	}

	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("no firebase credentials: set %s or a credentials file", CredentialsEnv)
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, fmt.Errorf("firebase credentials file: %w", err)
	}
	return option.WithCredentialsFile(cfg.CredentialsFile), nil
}

func NewFirebaseVerifier(ctx context.Context, cfg FirebaseConfig) (*FirebaseVerifier, error) {
	opt, err := credentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logger.Logger().Info("firebase token verification enabled", zap.String("project_id", cfg.ProjectID))
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) error {
	if idToken == "" {
		return ErrEmptyIDToken
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		logger.Logger().Info("firebase id token rejected", zap.Error(err))
		return fmt.Errorf("verify firebase id token: %w", err)
	}

	logger.Logger().Debug("firebase id token verified", zap.String("uid", token.UID))
	return nil
}
