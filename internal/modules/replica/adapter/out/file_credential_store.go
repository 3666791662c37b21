package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	replicaout "pajama/internal/modules/replica/port/out"
)

type credentialFile struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// FileCredentialStore keeps the bearer token in a single owner-only file.
type FileCredentialStore struct {
	path string
}

func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Load(_ context.Context) (replicaout.Credential, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return replicaout.Credential{}, false, nil
		}
		return replicaout.Credential{}, false, fmt.Errorf("read credential: %w", err)
	}
	var file credentialFile
	if err := json.Unmarshal(raw, &file); err != nil || file.Token == "" {
		return replicaout.Credential{}, false, nil
	}
	return replicaout.Credential{Token: file.Token, Subject: file.Subject, ExpiresAt: file.ExpiresAt}, true, nil
}

func (s *FileCredentialStore) Save(_ context.Context, credential replicaout.Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	payload, err := json.MarshalIndent(credentialFile{Token: credential.Token, Subject: credential.Subject, ExpiresAt: credential.ExpiresAt}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace credential: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// JWTParser reads exp and sub without checking the signature; only the
// server can verify it.
type JWTParser struct{}

func (JWTParser) Parse(token string) (replicaout.Credential, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return replicaout.Credential{}, fmt.Errorf("parse token: %w", err)
	}
	credential := replicaout.Credential{Token: token, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		credential.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return credential, nil
}
