package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrForeignHandle    = errors.New("handle belongs to another account")
)

// Documents is the key-value medium, with transactions.
type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Repository keeps one document per account. The account record maps to
// the document handle; the handle maps to the blob.
type Repository struct {
	docs Documents
}

func NewRepository(docs Documents) *Repository {
	return &Repository{docs: docs}
}

func accountKeyFor(account string) string { return "account:" + account }
func documentKeyFor(handle string) string { return "doc:" + handle }

func (r *Repository) Find(ctx context.Context, account string) (string, bool, error) {
	raw, found, err := r.docs.Get(ctx, accountKeyFor(account))
	if err != nil {
		return "", false, err
	}
	return string(raw), found, nil
}

func (r *Repository) Read(ctx context.Context, account, handle string) ([]byte, error) {
	if err := r.owns(ctx, account, handle); err != nil {
		return nil, err
	}
	blob, found, err := r.docs.Get(ctx, documentKeyFor(handle))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrDocumentNotFound
	}
	return blob, nil
}

// Write replaces the account's document. An empty handle creates the
// document, or reuses the existing one so an account never holds two.
func (r *Repository) Write(ctx context.Context, account, handle string, blob []byte) (string, error) {
	out := handle
	err := r.docs.Within(ctx, func(ctx context.Context) error {
		existing, found, err := r.Find(ctx, account)
		if err != nil {
			return err
		}
		switch {
		case handle == "" && found:
			out = existing
		case handle == "":
			out = uuid.NewString()
			if err := r.docs.Put(ctx, accountKeyFor(account), []byte(out)); err != nil {
				return err
			}
		case !found || existing != handle:
			return ErrForeignHandle
		}
		return r.docs.Put(ctx, documentKeyFor(out), blob)
	})
	if err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return out, nil
}

func (r *Repository) owns(ctx context.Context, account, handle string) error {
	existing, found, err := r.Find(ctx, account)
	if err != nil {
		return err
	}
	if !found {
		return ErrDocumentNotFound
	}
	if existing != handle {
		return ErrForeignHandle
	}
	return nil
}
