package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSystemProvider stores each file as a regular file directly under rootPath.
type FileSystemProvider struct {
	rootPath string
}

var _ StorageProvider = (*FileSystemProvider)(nil)

func NewFileSystemProvider(rootPath string) (*FileSystemProvider, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", rootPath, err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure directory %s: %w", absPath, err)
	}
	return &FileSystemProvider{rootPath: absPath}, nil
}

func (p *FileSystemProvider) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.rootPath)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", p.rootPath, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), TempPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (p *FileSystemProvider) Exists(ctx context.Context, name string) (bool, error) {
	if ValidateName(name) != nil {
		return false, nil
	}
	info, err := os.Stat(p.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error stating file %s: %w", name, err)
	}
	return info.Mode().IsRegular(), nil
}

func (p *FileSystemProvider) Get(ctx context.Context, name string) ([]byte, error) {
	if ValidateName(name) != nil {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(p.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return data, nil
}

// Put writes into a temp file in the same directory and renames it over
// the target, so readers see either the old or the new content.
func (p *FileSystemProvider) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}
	tmp, err := os.CreateTemp(p.rootPath, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set mode on %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, p.pathFor(name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func (p *FileSystemProvider) Delete(ctx context.Context, name string) error {
	if ValidateName(name) != nil {
		return ErrNotFound
	}
	if err := os.Remove(p.pathFor(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

func (p *FileSystemProvider) GetPath() string {
	return p.rootPath
}

func (p *FileSystemProvider) pathFor(name string) string {
	return filepath.Join(p.rootPath, name)
}
