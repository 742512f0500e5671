// Package export generates and manages collection snapshot artifacts. An
// export is rendered once, uploaded to blob storage, and tracked by a
// metadata row; the artifact bytes themselves are opaque to this package.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cardbinder/cardbinder/pkg/catalog"
	"github.com/cardbinder/cardbinder/pkg/errors"
	"github.com/cardbinder/cardbinder/pkg/logging"
)

// Format selects the artifact type of a snapshot export.
type Format string

// Supported export formats.
const (
	FormatPDF   Format = "pdf"
	FormatImage Format = "image"
)

// Valid reports whether the format is supported.
func (f Format) Valid() bool { return f == FormatPDF || f == FormatImage }

// ext returns the artifact file extension for the format.
func (f Format) ext() string {
	if f == FormatImage {
		return "png"
	}
	return "pdf"
}

// DefaultDownloadExpiry bounds how long a signed download URL stays valid.
const DefaultDownloadExpiry = 15 * time.Minute

// Snapshot is the metadata record of one generated export artifact.
type Snapshot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Format    Format    `json:"fileType"`
	CardCount int       `json:"cardCount"`
	FilePath  string    `json:"filePath"` // opaque blob storage key
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists Snapshot metadata rows. Get returns an error satisfying
// errors.IsNotFound for unknown IDs.
type Store interface {
	Insert(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	ListByUser(ctx context.Context, userID string) ([]Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// BlobStore holds artifact files by opaque path and signs bounded-expiry
// download URLs.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte) error
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// Renderer produces the artifact bytes for a snapshot. Rendering is an
// opaque side-effecting collaborator from this package's point of view.
type Renderer interface {
	Render(ctx context.Context, format Format, cards []catalog.Card) ([]byte, error)
}

// Manager generates, lists, and deletes snapshot exports.
type Manager struct {
	store    Store
	blobs    BlobStore
	renderer Renderer
}

// NewManager creates a Manager.
func NewManager(store Store, blobs BlobStore, renderer Renderer) *Manager {
	return &Manager{store: store, blobs: blobs, renderer: renderer}
}

// Generate renders a snapshot of the given cards, stores the artifact, and
// records its metadata. Returns the snapshot along with a signed download
// URL.
func (m *Manager) Generate(ctx context.Context, userID, name string, format Format, cards []catalog.Card) (*Snapshot, string, error) {
	if userID == "" {
		return nil, "", &errors.ValidationError{Field: "userId", Message: "user ID is required"}
	}
	if !format.Valid() {
		return nil, "", &errors.ValidationError{Field: "fileType", Value: format, Message: "unsupported export format"}
	}

	data, err := m.renderer.Render(ctx, format, cards)
	if err != nil {
		return nil, "", fmt.Errorf("rendering export: %w", err)
	}

	snapshot := Snapshot{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Format:    format,
		CardCount: len(cards),
		CreatedAt: time.Now().UTC(),
	}
	snapshot.FilePath = fmt.Sprintf("exports/%s/%s.%s", userID, snapshot.ID, format.ext())

	if err := m.blobs.Upload(ctx, snapshot.FilePath, data); err != nil {
		return nil, "", errors.WrapStorage("upload", "blob", snapshot.FilePath, err)
	}

	if err := m.store.Insert(ctx, snapshot); err != nil {
		// Best-effort cleanup of the just-uploaded artifact; losing the
		// race leaves an unreferenced blob, which is harmless.
		if delErr := m.blobs.Delete(ctx, snapshot.FilePath); delErr != nil {
			logging.Ctx(ctx).Warn().Err(delErr).Str("path", snapshot.FilePath).Msg("failed to clean up orphaned export blob")
		}
		return nil, "", errors.WrapStorage("insert", "export", snapshot.ID, err)
	}

	url, err := m.blobs.SignedURL(ctx, snapshot.FilePath, DefaultDownloadExpiry)
	if err != nil {
		// The export exists and stays listed; only this download link
		// failed to mint.
		logging.Ctx(ctx).Warn().Err(err).Str("export_id", snapshot.ID).Msg("failed to sign download URL")
		return &snapshot, "", nil
	}
	return &snapshot, url, nil
}

// List returns the user's snapshots, newest first.
func (m *Manager) List(ctx context.Context, userID string) ([]Snapshot, error) {
	snapshots, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.WrapStorage("query", "export", userID, err)
	}
	return snapshots, nil
}

// DownloadURL mints a fresh signed URL for an existing snapshot. The caller
// must own the snapshot.
func (m *Manager) DownloadURL(ctx context.Context, userID, id string) (string, error) {
	snapshot, err := m.get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	url, err := m.blobs.SignedURL(ctx, snapshot.FilePath, DefaultDownloadExpiry)
	if err != nil {
		return "", errors.WrapStorage("sign", "blob", snapshot.FilePath, err)
	}
	return url, nil
}

// Delete removes a snapshot: the backing blob first, then the metadata row.
// The two steps are not transactional. If the row deletion fails after the
// blob is gone, an orphaned row pointing at a missing file remains; the
// error is surfaced so the user can retry, which then only needs the row
// step to succeed.
func (m *Manager) Delete(ctx context.Context, userID, id string) error {
	snapshot, err := m.get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := m.blobs.Delete(ctx, snapshot.FilePath); err != nil && !errors.IsNotFound(err) {
		return errors.WrapStorage("delete", "blob", snapshot.FilePath, err)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return errors.WrapStorage("delete", "export", id, err)
	}
	return nil
}

// get loads a snapshot and enforces ownership. Another user's snapshot is
// indistinguishable from a missing one.
func (m *Manager) get(ctx context.Context, userID, id string) (*Snapshot, error) {
	snapshot, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("export", id)
		}
		return nil, errors.WrapStorage("query", "export", id, err)
	}
	if snapshot.UserID != userID {
		return nil, errors.NewNotFoundError("export", id)
	}
	return snapshot, nil
}
