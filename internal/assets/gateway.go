package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"skustudio/internal/domain"
	"skustudio/internal/providers/fal"
	"skustudio/internal/storage"
)

// Gateway turns raw product bytes into a durable URL every downstream
// backend call can reference. The bytes are not retained after upload.
type Gateway interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
}

// FalGateway uploads to fal storage. The returned URL's lifetime and access
// policy are owned entirely by the remote store.
type FalGateway struct {
	client *fal.Client
}

func NewFalGateway(client *fal.Client) *FalGateway {
	return &FalGateway{client: client}
}

// Upload fulfils the Gateway interface with a single remote attempt.
func (g *FalGateway) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	url, err := g.client.Upload(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	return url, nil
}

var _ Gateway = (*FalGateway)(nil)

// FileGateway persists uploads into the local FileStore and hands back a URL
// under the service's own static route. It stands in for remote storage when
// credentials are absent, so offline runs still round-trip real bytes.
type FileGateway struct {
	store   *storage.FileStore
	baseURL string
}

func NewFileGateway(store *storage.FileStore, baseURL string) *FileGateway {
	return &FileGateway{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload fulfils the Gateway interface.
func (g *FileGateway) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", domain.ErrUpload)
	}
	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), extensionFor(mimeType))
	stored, err := g.store.Write(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	return g.baseURL + "/" + stored, nil
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/png", "":
		return ".png"
	default:
		return ".bin"
	}
}

var _ Gateway = (*FileGateway)(nil)
