package pictures

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Picture, error)
	GetByID(ctx context.Context, id string) (*Picture, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*Picture, error)
	// FindByStorageKey looks up an owner-scoped picture by storage key,
	// skipping the record with excludeID (pass "" to exclude nothing).
	FindByStorageKey(ctx context.Context, userID, storageKey, excludeID string) (*Picture, error)
	Create(ctx context.Context, p *Picture) (*Picture, error)
	Update(ctx context.Context, p *Picture) (*Picture, error)
	Delete(ctx context.Context, id string) error
}
