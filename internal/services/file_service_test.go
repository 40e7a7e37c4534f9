package services

import (
	"io"
	"os"
	"strings"

	"github.com/Thanhfdq/task-app/internal/models"
)

func textUpload(name, content string) Upload {
	return Upload{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func (s *ServiceTestSuite) TestUploadAndDownload() {
	alice := s.register("alice")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "With files"})

	files, err := s.files.UploadFiles(s.ctx, alice.ID, task.ID, []Upload{
		textUpload("notes.txt", "first"),
		textUpload("notes.txt", "second"),
	})
	s.Require().NoError(err)
	s.Require().Len(files, 2)
	s.NotEqual(files[0].StoredName, files[1].StoredName)
	s.Equal("notes.txt", files[0].OriginalName)
	s.Equal(int64(5), files[0].Size)
	s.Contains(files[0].MimeType, "text/plain")

	listed, err := s.files.ListFiles(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Len(listed, 2)

	file, path, err := s.files.OpenFile(s.ctx, alice.ID, files[1].ID)
	s.Require().NoError(err)
	s.Equal(files[1].ID, file.ID)
	content, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("second", string(content))
}

func (s *ServiceTestSuite) TestUploadValidation() {
	alice := s.register("alice")
	bob := s.register("bob")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "With files"})

	_, err := s.files.UploadFiles(s.ctx, alice.ID, task.ID, nil)
	s.ErrorIs(err, ErrNoFiles)

	_, err = s.files.UploadFiles(s.ctx, alice.ID, task.ID, []Upload{textUpload("big.bin", strings.Repeat("x", 2048))})
	s.ErrorIs(err, ErrFileTooLarge)

	_, err = s.files.UploadFiles(s.ctx, bob.ID, task.ID, []Upload{textUpload("a.txt", "a")})
	s.ErrorIs(err, ErrTaskNotFound)

	listed, err := s.files.ListFiles(s.ctx, alice.ID, task.ID)
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *ServiceTestSuite) TestOpenFile_RejectsEscapingPath() {
	alice := s.register("alice")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "Tampered"})

	row := &models.TaskFile{
		TaskID:       task.ID,
		OriginalName: "passwd",
		StoredName:   "passwd",
		StoragePath:  "../../etc/passwd",
		UploadedAt:   fixedNow,
	}
	s.Require().NoError(s.db.Create(row).Error)

	_, _, err := s.files.OpenFile(s.ctx, alice.ID, row.ID)
	s.ErrorIs(err, ErrInvalidFilePath)

	s.ErrorIs(s.files.DeleteFile(s.ctx, alice.ID, task.ID, "passwd"), ErrInvalidFilePath)
}

func (s *ServiceTestSuite) TestDeleteFile() {
	alice := s.register("alice")
	bob := s.register("bob")
	task := s.createTask(alice.ID, CreateTaskInput{Name: "With files"})
	files, err := s.files.UploadFiles(s.ctx, alice.ID, task.ID, []Upload{textUpload("a.txt", "a")})
	s.Require().NoError(err)
	_, path, err := s.files.OpenFile(s.ctx, alice.ID, files[0].ID)
	s.Require().NoError(err)

	s.ErrorIs(s.files.DeleteFile(s.ctx, bob.ID, task.ID, files[0].StoredName), ErrTaskNotFound)
	s.ErrorIs(s.files.DeleteFile(s.ctx, alice.ID, task.ID, "missing.txt"), ErrFileNotFound)

	s.Require().NoError(s.files.DeleteFile(s.ctx, alice.ID, task.ID, files[0].StoredName))
	_, statErr := os.Stat(path)
	s.True(os.IsNotExist(statErr))

	_, _, err = s.files.OpenFile(s.ctx, alice.ID, files[0].ID)
	s.ErrorIs(err, ErrFileNotFound)
}
