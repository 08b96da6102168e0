package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/types"
)

const snapshotContentType = "application/json"

// ErrNotFound is returned when a requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Backend defines the object operations used to keep inventory snapshots.
type Backend interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Bucket() string
	Close() error
}

// Snapshot is a point-in-time export of every company and product.
type Snapshot struct {
	TakenAt   time.Time       `json:"takenAt"`
	Companies []types.Company `json:"companies"`
	Products  []types.Product `json:"products"`
}

// Archive stores snapshots as JSON objects under a key prefix.
type Archive struct {
	backend Backend
	prefix  string
}

// NewArchive constructs an Archive writing below prefix in backend's bucket.
func NewArchive(backend Backend, prefix string) *Archive {
	return &Archive{backend: backend, prefix: strings.Trim(prefix, "/")}
}

// Save uploads snap and returns the key it was stored under. Keys sort in
// the order the snapshots were taken.
func (a *Archive) Save(ctx context.Context, snap Snapshot) (string, error) {
	if err := a.backend.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket %s: %w", a.backend.Bucket(), err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}

	key := a.key(snap.TakenAt)
	if err := a.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), snapshotContentType); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Load downloads and decodes the snapshot stored under key.
func (a *Archive) Load(ctx context.Context, key string) (Snapshot, error) {
	rc, err := a.backend.Get(ctx, key)
	if err != nil {
		return Snapshot{}, err
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return snap, nil
}

// List returns the stored snapshot keys, oldest first.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	keys, err := a.backend.List(ctx, a.dir())
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (a *Archive) key(at time.Time) string {
	name := at.UTC().Format("20060102T150405.000000000Z") + ".json"
	if a.prefix == "" {
		return name
	}
	return path.Join(a.prefix, name)
}

func (a *Archive) dir() string {
	if a.prefix == "" {
		return ""
	}
	return a.prefix + "/"
}

// Open constructs the backend selected by cfg. It returns nil when object
// storage is disabled.
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "minio":
		backend, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case "gcs":
		backend, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
