package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/server/storage"
)

// AssetStore is the slice of the object store the upload route needs.
type AssetStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignGetURL(ctx context.Context, key string) (string, error)
}

// maxUploadBytes caps multipart uploads held in memory.
const maxUploadBytes = 32 << 20

// Upload accepts a multipart form with a "picture" file and a "name" field,
// stores the binary in the object store under a fresh key, and creates the
// metadata record through the regular create path.
func (h *PictureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := IdentityFromContext(ctx)
	if err != nil {
		unauthorizedResponse(w, unauthorizedMessage)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		validationErrorWithData(w, "Validation Error.", []FieldError{
			{Param: "picture", Msg: "Picture file must be provided.", Value: ""},
		})
		return
	}

	v := &validator{}

	name := sanitize(r.FormValue("name"))
	v.require("name", name, "Name must not be empty.")

	file, header, err := r.FormFile("picture")
	if err != nil {
		v.add("picture", "Picture file must be provided.", "")
	} else {
		defer file.Close()
	}

	if !v.ok() {
		validationErrorWithData(w, "Validation Error.", v.errs)
		return
	}

	key := storage.RandomStorageKey()

	if err := h.store.Upload(ctx, key, file, header.Header.Get("Content-Type")); err != nil {
		h.logger.Error(ctx, "asset upload failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	link, err := h.store.PresignGetURL(ctx, key)
	if err != nil {
		h.logger.Error(ctx, "presign failed", "error", err.Error())
		errorResponse(w, "Internal Server Error")
		return
	}

	p, err := h.pictures.Create(ctx, identity.UserID, name, link, key)
	if err != nil {
		// a fresh random key colliding is not a client error
		if errors.Is(err, common.ErrorAlreadyExists) {
			h.logger.Error(ctx, "storage key collision", "key", key)
		} else {
			h.logger.Error(ctx, "create failed", "error", err.Error())
		}
		errorResponse(w, "Internal Server Error")
		return
	}

	successResponseWithData(w, "Picture add Success.", newPictureData(p))
}
