package pictures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/dbx"
)

// RepositoryFactory binds a Repository implementation to a database handle,
// so the service can run multi-statement operations inside a transaction.
type RepositoryFactory func(db dbx.DBTX) Repository

// Service implements the owner-scoped picture operations. Every method
// takes the caller's identity (userID) resolved by the auth gate; mutations
// enforce that the caller owns the record before committing.
//
// Ownership-failure reporting is deliberately asymmetric: Get hides foreign
// records as not-found, while Update and Delete report them as unauthorized.
// The API contract depends on this, see DESIGN.md before changing it.
type Service struct {
	db   *sql.DB
	repo RepositoryFactory
}

func NewService(db *sql.DB, repo RepositoryFactory) *Service {
	return &Service{db: db, repo: repo}
}

// List returns all pictures owned by the caller, newest first. No pictures
// is an empty slice, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]*Picture, error) {
	return s.repo(s.db).ListByUser(ctx, userID)
}

// Get returns the caller's picture, or (nil, nil) when the id is malformed,
// the record is absent, or it belongs to someone else. Foreign records are
// indistinguishable from non-existent ones.
func (s *Service) Get(ctx context.Context, userID, id string) (*Picture, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}

	p, err := s.repo(s.db).GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// StorageKeyTaken reports whether the caller already has a picture with the
// given storage key, skipping excludeID (pass "" on create).
func (s *Service) StorageKeyTaken(ctx context.Context, userID, storageKey, excludeID string) (bool, error) {
	_, err := s.repo(s.db).FindByStorageKey(ctx, userID, storageKey, excludeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create persists a new picture owned by the caller. A storage key already
// used by the same owner surfaces as common.ErrorAlreadyExists; the unique
// index backs up the in-transaction existence check.
func (s *Service) Create(ctx context.Context, userID, name, link, storageKey string) (*Picture, error) {

	p := &Picture{
		UserID:     userID,
		Name:       name,
		Link:       link,
		StorageKey: storageKey,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		if _, err := repo.FindByStorageKey(ctx, userID, storageKey, ""); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		created, err := repo.Create(ctx, p)
		if err != nil {
			return err
		}
		p = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Update replaces the mutable fields of an existing picture. Absent records
// are reported as common.ErrorNotFound, records owned by someone else as
// common.ErrorUnauthorized.
func (s *Service) Update(ctx context.Context, userID, id, name, link, storageKey string) (*Picture, error) {

	var updated *Picture

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != userID {
			return common.ErrorUnauthorized
		}

		if _, err := repo.FindByStorageKey(ctx, userID, storageKey, id); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		existing.Name = name
		existing.Link = link
		existing.StorageKey = storageKey

		updated, err = repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) ||
			errors.Is(err, common.ErrorUnauthorized) ||
			errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating picture: %v", err)
	}

	return updated, nil
}

// Delete removes the caller's picture and returns its storage key so the
// external asset can be released asynchronously. The ownership check
// mirrors Update.
func (s *Service) Delete(ctx context.Context, userID, id string) (string, error) {

	repo := s.repo(s.db)

	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if existing.UserID != userID {
		return "", common.ErrorUnauthorized
	}

	if err := repo.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("error deleting picture: %v", err)
	}

	return existing.StorageKey, nil
}
