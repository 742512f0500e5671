// Package blob implements export.BlobStore on a filesystem abstracted by
// afero, with HMAC-signed download URLs of bounded validity. Swapping afero's
// OsFs for MemMapFs gives tests an isolated store with no temp directories.
package blob

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/cardbinder/cardbinder/pkg/errors"
)

// Store holds artifact files by opaque path under a root directory.
type Store struct {
	fs      afero.Fs
	root    string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithFs replaces the backing filesystem (tests use afero.NewMemMapFs).
func WithFs(fs afero.Fs) Option {
	return func(s *Store) { s.fs = fs }
}

// WithClock replaces the time source (used by expiry tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store rooted at dir. Signed URLs are minted under baseURL
// with an HMAC of path and expiry using secret.
func New(dir, baseURL string, secret []byte, opts ...Option) *Store {
	s := &Store{
		fs:      afero.NewOsFs(),
		root:    dir,
		baseURL: baseURL,
		secret:  secret,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload writes the artifact bytes at the given opaque path.
func (s *Store) Upload(_ context.Context, blobPath string, data []byte) error {
	full := path.Join(s.root, blobPath)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}
	return nil
}

// Download reads the artifact bytes at the given path.
func (s *Store) Download(_ context.Context, blobPath string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path.Join(s.root, blobPath))
	if err != nil {
		return nil, errors.NewNotFoundError("blob", blobPath)
	}
	return data, nil
}

// Delete removes the artifact at the given path. A missing artifact yields
// an error satisfying errors.IsNotFound so callers can treat it as already
// deleted.
func (s *Store) Delete(_ context.Context, blobPath string) error {
	full := path.Join(s.root, blobPath)
	if exists, _ := afero.Exists(s.fs, full); !exists {
		return errors.NewNotFoundError("blob", blobPath)
	}
	if err := s.fs.Remove(full); err != nil {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

// SignedURL mints a download URL valid until now+expiry. The signature binds
// the path and the expiry timestamp.
func (s *Store) SignedURL(_ context.Context, blobPath string, expiry time.Duration) (string, error) {
	expires := s.now().Add(expiry).Unix()
	sig := s.sign(blobPath, expires)

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing blob base URL: %w", err)
	}
	u.Path = path.Join(u.Path, blobPath)
	q := u.Query()
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", sig)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Verify checks a signature produced by SignedURL. Expired or forged URLs
// are rejected.
func (s *Store) Verify(blobPath string, expires int64, sig string) error {
	if s.now().Unix() > expires {
		return errors.ErrExpired
	}
	expected := s.sign(blobPath, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return &errors.ValidationError{Field: "sig", Message: "signature mismatch"}
	}
	return nil
}

func (s *Store) sign(blobPath string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", blobPath, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
