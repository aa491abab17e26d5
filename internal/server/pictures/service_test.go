package pictures

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/dbx"
)

const (
	validID    = "0b2f7a66-3f58-4e76-9d21-5a1f6c0f3b11"
	otherID    = "9c51cf2e-8a7d-4f3a-b9e0-2d4f6a8b0c22"
	callerID   = "user-a"
	strangerID = "user-b"
)

// --- fakes ---

type fakeRepo struct {
	listOut []*Picture
	listErr error

	byID        map[string]*Picture
	byIDErr     error
	byIDAndUser map[string]*Picture

	storageKeyHit *Picture

	createOut *Picture
	createErr error
	updateOut *Picture
	updateErr error

	deleted   []string
	deleteErr error
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string) ([]*Picture, error) {
	return f.listOut, f.listErr
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Picture, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*Picture, error) {
	if p, ok := f.byIDAndUser[id+"/"+userID]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) FindByStorageKey(ctx context.Context, userID, storageKey, excludeID string) (*Picture, error) {
	if f.storageKeyHit != nil && f.storageKeyHit.ID != excludeID {
		return f.storageKeyHit, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRepo) Create(ctx context.Context, p *Picture) (*Picture, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	p.ID = validID
	p.CreatedAt = time.Now()
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Picture) (*Picture, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updateOut != nil {
		return f.updateOut, nil
	}
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newServiceWithFake(t *testing.T, repo *fakeRepo) (*Service, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	s := NewService(db, func(dbx.DBTX) Repository { return repo })
	return s, mock, db
}

// --- tests ---

func TestGet_MalformedID_ReturnsEmpty(t *testing.T) {
	s, _, db := newServiceWithFake(t, &fakeRepo{})
	defer db.Close()

	p, err := s.Get(context.Background(), callerID, "definitely-not-a-uuid")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil picture for malformed id, got %+v", p)
	}
}

func TestGet_ForeignRecord_IndistinguishableFromAbsent(t *testing.T) {
	repo := &fakeRepo{
		byIDAndUser: map[string]*Picture{
			validID + "/" + strangerID: {ID: validID, UserID: strangerID},
		},
	}
	s, _, db := newServiceWithFake(t, repo)
	defer db.Close()

	foreign, errForeign := s.Get(context.Background(), callerID, validID)
	absent, errAbsent := s.Get(context.Background(), callerID, otherID)

	if errForeign != nil || errAbsent != nil {
		t.Fatalf("unexpected errors: %v / %v", errForeign, errAbsent)
	}
	if foreign != nil || absent != nil {
		t.Fatalf("expected nil for both foreign and absent records, got %+v / %+v", foreign, absent)
	}
}

func TestGet_OwnRecord(t *testing.T) {
	want := &Picture{ID: validID, UserID: callerID, Name: "sunset", Link: "l", StorageKey: "k", CreatedAt: time.Now()}
	repo := &fakeRepo{
		byIDAndUser: map[string]*Picture{validID + "/" + callerID: want},
	}
	s, _, db := newServiceWithFake(t, repo)
	defer db.Close()

	got, err := s.Get(context.Background(), callerID, validID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected picture: %+v", got)
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &fakeRepo{}
	s, mock, db := newServiceWithFake(t, repo)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	p, err := s.Create(context.Background(), callerID, "sunset", "http://link", "key-1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == "" || p.UserID != callerID || p.CreatedAt.IsZero() {
		t.Fatalf("unexpected picture: %+v", p)
	}
}

func TestCreate_DuplicateStorageKeyForOwner(t *testing.T) {
	repo := &fakeRepo{
		storageKeyHit: &Picture{ID: otherID, UserID: callerID, StorageKey: "key-1"},
	}
	s, mock, db := newServiceWithFake(t, repo)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), callerID, "sunset", "http://link", "key-1")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s, mock, db := newServiceWithFake(t, &fakeRepo{})
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), callerID, validID, "n", "l", "k")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdate_ForeignRecord_Unauthorized(t *testing.T) {
	repo := &fakeRepo{
		byID: map[string]*Picture{validID: {ID: validID, UserID: strangerID}},
	}
	s, mock, db := newServiceWithFake(t, repo)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), callerID, validID, "n", "l", "k")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestUpdate_DuplicateKeyExcludesSelf(t *testing.T) {
	// the only record using the key is the one being updated, so no conflict
	self := &Picture{ID: validID, UserID: callerID, Name: "old", Link: "l", StorageKey: "k"}
	repo := &fakeRepo{
		byID:          map[string]*Picture{validID: self},
		storageKeyHit: self,
	}
	s, mock, db := newServiceWithFake(t, repo)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	got, err := s.Update(context.Background(), callerID, validID, "new", "l2", "k")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Name != "new" || got.Link != "l2" {
		t.Fatalf("fields not replaced: %+v", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	s, _, db := newServiceWithFake(t, &fakeRepo{})
	defer db.Close()

	_, err := s.Delete(context.Background(), callerID, validID)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_ForeignRecord_Unauthorized(t *testing.T) {
	repo := &fakeRepo{
		byID: map[string]*Picture{validID: {ID: validID, UserID: strangerID, StorageKey: "k"}},
	}
	s, _, db := newServiceWithFake(t, repo)
	defer db.Close()

	_, err := s.Delete(context.Background(), callerID, validID)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("record must not be deleted on ownership mismatch")
	}
}

func TestDelete_Success_ReturnsStorageKey(t *testing.T) {
	repo := &fakeRepo{
		byID: map[string]*Picture{validID: {ID: validID, UserID: callerID, StorageKey: "asset-key"}},
	}
	s, _, db := newServiceWithFake(t, repo)
	defer db.Close()

	key, err := s.Delete(context.Background(), callerID, validID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if key != "asset-key" {
		t.Fatalf("expected storage key of deleted record, got %q", key)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != validID {
		t.Fatalf("unexpected deletions: %v", repo.deleted)
	}
}

func TestStorageKeyTaken(t *testing.T) {
	repo := &fakeRepo{
		storageKeyHit: &Picture{ID: otherID, UserID: callerID, StorageKey: "k"},
	}
	s, _, db := newServiceWithFake(t, repo)
	defer db.Close()

	taken, err := s.StorageKeyTaken(context.Background(), callerID, "k", "")
	if err != nil {
		t.Fatalf("StorageKeyTaken error: %v", err)
	}
	if !taken {
		t.Fatal("expected key to be reported as taken")
	}

	// excluding the holder itself clears the conflict
	taken, err = s.StorageKeyTaken(context.Background(), callerID, "k", otherID)
	if err != nil {
		t.Fatalf("StorageKeyTaken error: %v", err)
	}
	if taken {
		t.Fatal("expected key to be free when holder is excluded")
	}
}
