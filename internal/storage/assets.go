package storage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AvatarsContainer - общий контейнер аватаров
const AvatarsContainer = "avatars"

// AssetStore stores catalog assets grouped by container
type AssetStore interface {
	// Upload stores the object and returns the provider's external id
	Upload(ctx context.Context, container, name string, r io.Reader, mime string) (string, error)

	// Delete is idempotent: a missing object is not an error
	Delete(ctx context.Context, container, name string) error

	// URL returns <blob_base_url>/<container>/<name>
	URL(container, name string) string
}

type assetStore struct {
	backend Storage
	baseURL string
}

func NewAssetStore(backend Storage, baseURL string) AssetStore {
	return &assetStore{
		backend: backend,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (a *assetStore) Upload(ctx context.Context, container, name string, r io.Reader, mime string) (string, error) {
	return a.backend.Save(ctx, container+"/"+name, r, mime)
}

func (a *assetStore) Delete(ctx context.Context, container, name string) error {
	return a.backend.Delete(ctx, container+"/"+name)
}

func (a *assetStore) URL(container, name string) string {
	return a.baseURL + "/" + container + "/" + name
}

// Containers are keyed by the immutable company id, not by its name

func ItemsContainer(companyID string) string {
	return companyID + "-items"
}

func CollectionsContainer(companyID string) string {
	return companyID + "-collections"
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename keeps only the base name with safe characters
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

// ObjectName returns a collision-free object name: <uuid>_<sanitized filename>
func ObjectName(filename string) string {
	return uuid.NewString() + "_" + SanitizeFilename(filename)
}
