package services

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by a service matches exactly one of
// these through errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage fault")
)

// ServiceError is a classified error with a client-facing message.
type ServiceError struct {
	Kind  error
	Msg   string
	cause error
}

func (e *ServiceError) Error() string {
	return e.Msg
}

func (e *ServiceError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) error {
	return &ServiceError{Kind: kind, Msg: msg}
}

func validationError(msg string) error {
	return newError(ErrValidation, msg)
}

// storageError hides the underlying cause from clients while keeping it in
// the chain for logging.
func storageError(msg string, cause error) error {
	return &ServiceError{Kind: ErrStorage, Msg: msg, cause: cause}
}

// lookupError converts a repository lookup failure into notFound, or a
// storage fault for anything other than a missing row.
func lookupError(err, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return storageError(msg, err)
}

// Cause returns the underlying error wrapped by a storage fault, if any.
func Cause(err error) error {
	var se *ServiceError
	if errors.As(err, &se) && se.cause != nil {
		return se.cause
	}
	return nil
}

var (
	ErrNotAuthenticated   = newError(ErrUnauthenticated, "authentication required")
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid username or password")
	ErrUsernameTaken      = newError(ErrConflict, "username already exists")
	ErrPasswordTooShort   = newError(ErrValidation, "password too short")
	ErrWrongPassword      = newError(ErrValidation, "current password is incorrect")
	ErrUserNotFound       = newError(ErrNotFound, "user not found")

	ErrProjectNotFound     = newError(ErrNotFound, "project not found")
	ErrNotProjectManager   = newError(ErrForbidden, "only the project manager can perform this action")
	ErrAlreadyMember       = newError(ErrConflict, "user is already a member of the project")
	ErrNotMember           = newError(ErrNotFound, "user is not a member of the project")
	ErrMemberIsManager     = newError(ErrConflict, "the project manager cannot leave or be removed")
	ErrMemberHasTasks      = newError(ErrConflict, "member still has tasks in the project")
	ErrGroupNotFound       = newError(ErrNotFound, "group not found")
	ErrGroupHasTasks       = newError(ErrConflict, "group still contains tasks")
	ErrTaskNotFound        = newError(ErrNotFound, "task not found")
	ErrTaskPermission      = newError(ErrForbidden, "user does not have permission to modify this task")
	ErrCommentsForbidden   = newError(ErrForbidden, "only the performer or the project manager can access comments")
	ErrPersonalTaskMove    = newError(ErrValidation, "personal tasks have no group to move between")
	ErrFileNotFound        = newError(ErrNotFound, "file not found")
	ErrFileTooLarge        = newError(ErrValidation, "file exceeds the upload size limit")
	ErrNoFiles             = newError(ErrValidation, "at least one file is required")
	ErrInvalidFilePath     = newError(ErrForbidden, "file path is outside the upload directory")
	ErrDateRange           = newError(ErrValidation, "start date must not be after end date")
	ErrProgressRange       = newError(ErrValidation, "progress must be between 0 and 100")
	ErrAIServiceNotEnabled = newError(ErrStorage, "AI service is not configured")
	ErrAINoTasksGenerated  = newError(ErrValidation, "AI did not generate any tasks")
	ErrAINoValidTasks      = newError(ErrValidation, "no valid tasks could be created from AI output")
)
