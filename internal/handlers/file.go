package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	apierrors "github.com/Thanhfdq/task-app/internal/errors"
	"github.com/Thanhfdq/task-app/internal/services"
)

// FileHandler serves task attachments.
type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadFiles attaches every file of the multipart field "files" to a task.
func (h *FileHandler) UploadFiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			apierrors.BadRequest(c, "Request must be multipart/form-data")
			return
		}
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}

	headers := form.File["files"]
	uploads := make([]services.Upload, len(headers))
	for i, fh := range headers {
		uploads[i] = services.Upload{Name: fh.Filename, Open: opener(fh)}
	}

	files, err := h.fileService.UploadFiles(c.Request.Context(), userID, taskID, uploads)
	if err != nil {
		respondServiceError(c, "upload files", err)
		return
	}
	respondCreated(c, "Files uploaded", dto.ToFileDTOs(files))
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func (h *FileHandler) ListFiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	files, err := h.fileService.ListFiles(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, "list files", err)
		return
	}
	respondOK(c, "Files retrieved", dto.ToFileDTOs(files))
}

// DownloadFile streams an attachment under its original name.
func (h *FileHandler) DownloadFile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c, "fileId")
	if !ok {
		return
	}

	file, path, err := h.fileService.OpenFile(c.Request.Context(), userID, fileID)
	if err != nil {
		respondServiceError(c, "download file", err)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		apierrors.NotFound(c, "File not found on disk")
		return
	}

	if file.MimeType != "" {
		c.Header("Content-Type", file.MimeType)
	}
	c.FileAttachment(path, file.OriginalName)
}

// DeleteFile removes an attachment by task id and stored file name.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(c.Request.Context(), userID, taskID, c.Param("fileName")); err != nil {
		respondServiceError(c, "delete file", err)
		return
	}
	respondOK(c, "File deleted", nil)
}
