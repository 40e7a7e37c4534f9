// Package storage keeps task attachments on local disk under one root
// directory, one sub-directory per task.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	// ErrOutsideRoot is returned when a path does not resolve inside the upload root.
	ErrOutsideRoot = errors.New("storage: path escapes upload root")
	// ErrFileTooLarge is returned when an upload exceeds the per-file limit.
	ErrFileTooLarge = errors.New("storage: file exceeds size limit")
)

const maxNameLength = 200

// StoredFile describes a file written by Save. Path is relative to the root.
type StoredFile struct {
	StoredName string
	Path       string
	Size       int64
	MimeType   string
}

// FileStore writes, resolves and removes attachment files.
type FileStore struct {
	root     string
	maxBytes int64
}

// NewFileStore creates the root directory if needed.
func NewFileStore(root string, maxBytes int64) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FileStore{root: filepath.Clean(abs), maxBytes: maxBytes}, nil
}

// Root returns the absolute upload root.
func (s *FileStore) Root() string {
	return s.root
}

// Save copies r into the task's directory under a unique name derived
// from originalName, so two uploads with the same name never collide.
func (s *FileStore) Save(taskID uint64, originalName string, r io.Reader) (*StoredFile, error) {
	storedName := uuid.NewString() + "_" + SanitizeName(originalName)
	rel := filepath.Join(taskDir(taskID), storedName)

	abs, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create task directory: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(abs)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: write file: %w", err)
	}

	mimeType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(abs); err == nil {
		mimeType = mt.String()
	}

	return &StoredFile{
		StoredName: storedName,
		Path:       filepath.ToSlash(rel),
		Size:       n,
		MimeType:   mimeType,
	}, nil
}

// Resolve turns a stored path into an absolute path, failing with
// ErrOutsideRoot unless it lies strictly inside the root. It never touches
// the filesystem.
func (s *FileStore) Resolve(path string) (string, error) {
	if path == "" {
		return "", ErrOutsideRoot
	}
	p := filepath.FromSlash(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)

	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return p, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *FileStore) Remove(path string) error {
	abs, err := s.Resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}

// RemoveTaskDir deletes every attachment of a task.
func (s *FileStore) RemoveTaskDir(taskID uint64) error {
	abs, err := s.Resolve(taskDir(taskID))
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("storage: remove task directory: %w", err)
	}
	return nil
}

// SanitizeName reduces a client-supplied file name to a safe base name.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '/' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	if len(name) > maxNameLength {
		ext := filepath.Ext(name)
		if len(ext) > 20 {
			ext = ""
		}
		name = name[:maxNameLength-len(ext)] + ext
	}
	return name
}

func taskDir(taskID uint64) string {
	return strconv.FormatUint(taskID, 10)
}
