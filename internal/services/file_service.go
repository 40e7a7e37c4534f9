package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/Thanhfdq/task-app/internal/models"
	"github.com/Thanhfdq/task-app/internal/repository"
	"github.com/Thanhfdq/task-app/internal/storage"
)

// FileService handles task attachments. Rows live in the database, bytes
// in the FileStore.
type FileService struct {
	fileRepo repository.FileRepository
	store    *storage.FileStore
	access   access
	now      func() time.Time
}

// NewFileService creates a new FileService
func NewFileService(fileRepo repository.FileRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, store *storage.FileStore) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		store:    store,
		access:   access{projects: projectRepo, tasks: taskRepo},
		now:      time.Now,
	}
}

// Upload is one file of a multipart upload.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// UploadFiles stores each upload and records its metadata. Files already
// written are kept when a later one fails.
func (s *FileService) UploadFiles(ctx context.Context, actorID, taskID uint64, uploads []Upload) ([]models.TaskFile, error) {
	if _, err := s.access.modifyTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	saved := make([]models.TaskFile, 0, len(uploads))
	for _, upload := range uploads {
		file, err := s.saveOne(ctx, taskID, upload)
		if err != nil {
			return saved, err
		}
		saved = append(saved, *file)
	}
	return saved, nil
}

func (s *FileService) saveOne(ctx context.Context, taskID uint64, upload Upload) (*models.TaskFile, error) {
	r, err := upload.Open()
	if err != nil {
		return nil, storageError("failed to read upload", err)
	}
	defer r.Close()

	stored, err := s.store.Save(taskID, upload.Name, r)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, storageError("failed to store file", err)
	}

	file := &models.TaskFile{
		TaskID:       taskID,
		OriginalName: storage.SanitizeName(upload.Name),
		StoredName:   stored.StoredName,
		StoragePath:  stored.Path,
		Size:         stored.Size,
		MimeType:     stored.MimeType,
		UploadedAt:   s.now(),
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		if rmErr := s.store.Remove(stored.Path); rmErr != nil {
			log.Printf("Failed to remove orphaned upload %s: %v", stored.Path, rmErr)
		}
		return nil, storageError("failed to record file", err)
	}
	return file, nil
}

// ListFiles lists a task's attachments
func (s *FileService) ListFiles(ctx context.Context, actorID, taskID uint64) ([]models.TaskFile, error) {
	if _, err := s.access.viewTask(ctx, actorID, taskID); err != nil {
		return nil, err
	}
	files, err := s.fileRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storageError("failed to list files", err)
	}
	return files, nil
}

// OpenFile resolves an attachment for download. The stored path is
// checked against the upload root before the file is touched.
func (s *FileService) OpenFile(ctx context.Context, actorID, fileID uint64) (*models.TaskFile, string, error) {
	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		return nil, "", lookupError(err, ErrFileNotFound, "failed to find file")
	}
	if _, err := s.access.viewTask(ctx, actorID, file.TaskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", err
	}

	path, err := s.store.Resolve(file.StoragePath)
	if err != nil {
		return nil, "", ErrInvalidFilePath
	}
	return file, path, nil
}

// DeleteFile removes an attachment identified by its task and stored name
func (s *FileService) DeleteFile(ctx context.Context, actorID, taskID uint64, storedName string) error {
	if _, err := s.access.modifyTask(ctx, actorID, taskID); err != nil {
		return err
	}

	file, err := s.fileRepo.FindByTaskAndStoredName(ctx, taskID, storedName)
	if err != nil {
		return lookupError(err, ErrFileNotFound, "failed to find file")
	}
	if _, err := s.store.Resolve(file.StoragePath); err != nil {
		return ErrInvalidFilePath
	}

	if err := s.fileRepo.Delete(ctx, file.ID); err != nil {
		return storageError("failed to delete file record", err)
	}
	if err := s.store.Remove(file.StoragePath); err != nil {
		return storageError("failed to delete file", err)
	}
	return nil
}
