package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the named file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that cannot live in a flat namespace.
	ErrInvalidName = errors.New("invalid file name")
)

// TempPrefix marks in-flight writes of the filesystem backend. Names with
// this prefix are reserved and never part of the namespace.
const TempPrefix = ".filestore-tmp-"

// Defines the interface for storage backends.
// Names are keys of a single flat namespace.
type StorageProvider interface {
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects names that are empty, refer to a directory,
// would escape the flat namespace or use the reserved TempPrefix.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return ErrInvalidName
	case strings.ContainsAny(name, "/\\\x00"):
		return ErrInvalidName
	case strings.HasPrefix(name, TempPrefix):
		return ErrInvalidName
	}
	return nil
}
