package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/logging"
	"github.com/verkhov/picvault/internal/server/pictures"
)

// PictureService is the slice of the pictures service the handlers need.
type PictureService interface {
	List(ctx context.Context, userID string) ([]*pictures.Picture, error)
	Get(ctx context.Context, userID, id string) (*pictures.Picture, error)
	StorageKeyTaken(ctx context.Context, userID, storageKey, excludeID string) (bool, error)
	Create(ctx context.Context, userID, name, link, storageKey string) (*pictures.Picture, error)
	Update(ctx context.Context, userID, id, name, link, storageKey string) (*pictures.Picture, error)
	Delete(ctx context.Context, userID, id string) (string, error)
}

// AssetCleaner schedules external assets for best-effort deletion.
type AssetCleaner interface {
	Enqueue(key string)
}

// pictureData is the outward projection of a picture record.
type pictureData struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Link       string    `json:"link"`
	StorageKey string    `json:"storageKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newPictureData(p *pictures.Picture) pictureData {
	return pictureData{
		ID:         p.ID,
		Name:       p.Name,
		Link:       p.Link,
		StorageKey: p.StorageKey,
		CreatedAt:  p.CreatedAt,
	}
}

type PictureHandler struct {
	pictures PictureService
	store    AssetStore
	cleaner  AssetCleaner
	logger   logging.Logger
}

func NewPictureHandler(svc PictureService, store AssetStore, cleaner AssetCleaner, logger logging.Logger) *PictureHandler {
	return &PictureHandler{
		pictures: svc,
		store:    store,
		cleaner:  cleaner,
		logger:   logger.With("module", "picture_handler"),
	}
}

func (h *PictureHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	list, err := h.pictures.List(ctx, identity.UserID)
	if err != nil {
		h.logger.Error(ctx, "list failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	data := make([]pictureData, 0, len(list))
	for _, p := range list {
		data = append(data, newPictureData(p))
	}

	successResponseWithData(w, "Operation success", data)
}

// Detail hides records owned by others behind the same empty 200 payload as
// non-existent ones; a malformed id short-circuits before the store is
// queried.
func (h *PictureHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	p, err := h.pictures.Get(ctx, identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error(ctx, "detail failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}
	if p == nil {
		successResponseWithData(w, "Operation success", struct{}{})
		return
	}

	successResponseWithData(w, "Operation success", newPictureData(p))
}

type pictureRequest struct {
	Name       string `json:"name"`
	Link       string `json:"link"`
	StorageKey string `json:"storageKey"`
}

// validatePictureFields sanitizes the payload in place and collects the
// shared field checks for create and update. excludeID skips the record
// being updated in the duplicate-key lookup.
func (h *PictureHandler) validatePictureFields(ctx context.Context, v *validator, req *pictureRequest, userID, excludeID string) error {
	req.Name = sanitize(req.Name)
	req.Link = sanitize(req.Link)
	req.StorageKey = sanitize(req.StorageKey)

	v.require("name", req.Name, "Name must not be empty.")
	v.require("link", req.Link, "Link must not be empty.")
	if v.require("storageKey", req.StorageKey, "Storage key must not be empty.") {
		taken, err := h.pictures.StorageKeyTaken(ctx, userID, req.StorageKey, excludeID)
		if err != nil {
			return err
		}
		if taken {
			v.add("storageKey", "Picture already exist with this storage key.", req.StorageKey)
		}
	}
	return nil
}

func (h *PictureHandler) Store(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	var req pictureRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	v := &validator{}
	if err := h.validatePictureFields(ctx, v, &req, identity.UserID, ""); err != nil {
		h.logger.Error(ctx, "storage key lookup failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}
	if !v.ok() {
		validationErrorWithData(w, "Validation Error.", v.errs)
		return
	}

	p, err := h.pictures.Create(ctx, identity.UserID, req.Name, req.Link, req.StorageKey)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			v.add("storageKey", "Picture already exist with this storage key.", req.StorageKey)
			validationErrorWithData(w, "Validation Error.", v.errs)
			return
		}
		h.logger.Error(ctx, "create failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	successResponseWithData(w, "Picture add Success.", newPictureData(p))
}

func (h *PictureHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	id := chi.URLParam(r, "id")

	var req pictureRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	// duplicate lookup only excludes the target when the id is well formed;
	// a malformed id fails below regardless
	excludeID := ""
	if uuid.Validate(id) == nil {
		excludeID = id
	}

	v := &validator{}
	if err := h.validatePictureFields(ctx, v, &req, identity.UserID, excludeID); err != nil {
		h.logger.Error(ctx, "storage key lookup failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}
	if !v.ok() {
		validationErrorWithData(w, "Validation Error.", v.errs)
		return
	}

	if uuid.Validate(id) != nil {
		validationErrorWithData(w, "Invalid Error.", "Invalid ID")
		return
	}

	p, err := h.pictures.Update(ctx, identity.UserID, id, req.Name, req.Link, req.StorageKey)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			notFoundResponse(w, "Picture not exists with this id")
		case errors.Is(err, common.ErrorUnauthorized):
			unauthorizedResponse(w, "You are not authorized to do this operation.")
		case errors.Is(err, common.ErrorAlreadyExists):
			v.add("storageKey", "Picture already exist with this storage key.", req.StorageKey)
			validationErrorWithData(w, "Validation Error.", v.errs)
		default:
			h.logger.Error(ctx, "update failed", "error", err.Error())
			errorResponse(w, "Internal Server Error")
		}
		return
	}

	successResponseWithData(w, "Picture update Success.", newPictureData(p))
}

func (h *PictureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		validationErrorWithData(w, "Invalid Error.", "Invalid ID")
		return
	}

	storageKey, err := h.pictures.Delete(ctx, identity.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			notFoundResponse(w, "Picture not exists with this id")
		case errors.Is(err, common.ErrorUnauthorized):
			unauthorizedResponse(w, "You are not authorized to do this operation.")
		default:
			h.logger.Error(ctx, "delete failed", "error", err.Error())
			errorResponse(w, "Internal Server Error")
		}
		return
	}

	// the response never waits on the object store
	h.cleaner.Enqueue(storageKey)

	successResponse(w, "Picture delete Success.")
}
