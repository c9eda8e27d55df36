package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/redis/go-redis/v9"
)

// MaxImageBytes caps an uploaded catalog image.
const MaxImageBytes = 5 << 20

var (
	// ErrImageTooLarge is returned for images above MaxImageBytes.
	ErrImageTooLarge = errors.New("La imagen no puede superar 5 MB")
	// ErrImageType is returned for anything that is not JPEG, PNG, WebP or GIF.
	ErrImageType = errors.New("Formato de imagen no soportado (JPG, PNG, WebP o GIF)")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PendingImage is an uploaded image that has not been saved to the API yet.
type PendingImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidateImage sniffs data and returns its content type when accepted.
func ValidateImage(data []byte) (string, error) {
	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if allowedImageTypes[m.String()] {
			return m.String(), nil
		}
	}
	return "", ErrImageType
}

// ReadImageUpload reads the file posted under field. It returns nil without
// error when no file was chosen.
func ReadImageUpload(r *http.Request, field string) (*PendingImage, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	if header.Size == 0 {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	contentType, err := ValidateImage(data)
	if err != nil {
		return nil, err
	}
	return &PendingImage{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}

// PreviewStore parks pending images in Redis so a form can show and keep
// them across a failed submit. Each entry belongs to one session.
type PreviewStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewStore constructs a PreviewStore.
func NewPreviewStore(client *redis.Client, ttl time.Duration) *PreviewStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &PreviewStore{client: client, ttl: ttl}
}

func previewKey(token string) string {
	return "preview:" + token
}

// Save stores img for sessionID and returns its token.
func (s *PreviewStore) Save(ctx context.Context, sessionID string, img PendingImage) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	key := previewKey(token)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"owner":        sessionID,
			"filename":     img.Filename,
			"content_type": img.ContentType,
			"data":         img.Data,
		})
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save preview: %w", err)
	}
	return token, nil
}

// Load returns the image behind token if it belongs to sessionID.
func (s *PreviewStore) Load(ctx context.Context, sessionID, token string) (*PendingImage, error) {
	if token == "" {
		return nil, ErrPreviewNotFound
	}
	fields, err := s.client.HGetAll(ctx, previewKey(token)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 || fields["owner"] != sessionID {
		return nil, ErrPreviewNotFound
	}
	return &PendingImage{
		Filename:    fields["filename"],
		ContentType: fields["content_type"],
		Data:        []byte(fields["data"]),
	}, nil
}

// Discard drops token. Unknown tokens are ignored.
func (s *PreviewStore) Discard(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, previewKey(token)).Err()
}

// Replace stores img and discards the superseded token, if any.
func (s *PreviewStore) Replace(ctx context.Context, sessionID, previous string, img PendingImage) (string, error) {
	token, err := s.Save(ctx, sessionID, img)
	if err != nil {
		return "", err
	}
	if previous != "" && previous != token {
		if err := s.Discard(ctx, previous); err != nil {
			return token, err
		}
	}
	return token, nil
}

// PreviewPath is the admin URL that serves token.
func PreviewPath(token string) string {
	if token == "" {
		return ""
	}
	return "/admin/previews/" + token
}
