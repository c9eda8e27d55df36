package shared

import (
	"context"
	"errors"
	"net/http"

	"github.com/logiparts/logiparts-admin/internal/apiclient"
	internalShared "github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	// ImageField is the multipart field carrying a new image.
	ImageField = "image"
	// PendingImageField carries the preview token of an image uploaded by an
	// earlier, failed submit.
	PendingImageField = "pending_image"
)

// ImageSlot is the image state of one form submit.
type ImageSlot struct {
	Image *internalShared.PendingImage
	Token string
}

// ResolveImage works out which pending image a submit carries: a freshly
// chosen file replaces any earlier preview; otherwise the earlier preview is
// reused while it is still alive. A rejected file is reported as a field error.
func (d Deps) ResolveImage(ctx context.Context, r *http.Request) (ImageSlot, error) {
	sessionID := SessionID(r)
	previous := r.PostFormValue(PendingImageField)

	upload, err := internalShared.ReadImageUpload(r, ImageField)
	if err != nil {
		if errors.Is(err, internalShared.ErrImageTooLarge) || errors.Is(err, internalShared.ErrImageType) {
			return ImageSlot{Token: previous}, &internalShared.ValidationError{Fields: map[string]string{ImageField: err.Error()}}
		}
		return ImageSlot{}, err
	}
	if upload != nil {
		token, err := d.Previews.Replace(ctx, sessionID, previous, *upload)
		if err != nil {
			d.Logger.Warn("store image preview", "error", err)
		}
		return ImageSlot{Image: upload, Token: token}, nil
	}
	if previous == "" {
		return ImageSlot{}, nil
	}
	pending, err := d.Previews.Load(ctx, sessionID, previous)
	if err != nil {
		if errors.Is(err, internalShared.ErrPreviewNotFound) {
			return ImageSlot{}, nil
		}
		return ImageSlot{}, err
	}
	return ImageSlot{Image: pending, Token: previous}, nil
}

// File returns the pending image as a multipart attachment, or nil.
func (s ImageSlot) File() *apiclient.File {
	if s.Image == nil {
		return nil
	}
	return &apiclient.File{
		Field:       ImageField,
		Filename:    s.Image.Filename,
		ContentType: s.Image.ContentType,
		Data:        s.Image.Data,
	}
}

// Release drops the preview once the image has been saved.
func (d Deps) Release(ctx context.Context, s ImageSlot) {
	if s.Token == "" {
		return
	}
	if err := d.Previews.Discard(ctx, s.Token); err != nil {
		d.Logger.Warn("discard image preview", "error", err)
	}
}

// PreviewURL picks what the image slot shows: the pending upload first, then
// the stored image, otherwise nothing.
func (d Deps) PreviewURL(token, stored string) string {
	if token != "" {
		return internalShared.PreviewPath(token)
	}
	return d.ImageURL(stored)
}

// ParseForm parses a multipart or urlencoded body within the upload limit.
func (d Deps) ParseForm(r *http.Request) error {
	limit := d.MaxUploadBytes
	if limit <= 0 {
		limit = 16 << 20
	}
	err := r.ParseMultipartForm(limit)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}
