package util

import "errors"

// NotFound family: the referenced catalog entity does not exist.
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
)

// InvalidState family: the caller violated an operation precondition.
// These fail loudly instead of silently no-oping.
var (
	ErrNoActiveProfile    = errors.New("no active profile")
	ErrInvalidLevel       = errors.New("invalid experience level")
	ErrNotEnrolled        = errors.New("user not enrolled in course")
	ErrModuleLocked       = errors.New("module is locked")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrOptionOutOfRange   = errors.New("answer option out of range")
	ErrAttemptIncomplete  = errors.New("attempt has unanswered questions")
	ErrAttemptFinalized   = errors.New("attempt already finalized")
	ErrCourseNotCompleted = errors.New("course not completed")
	ErrCertificateExists  = errors.New("certificate already issued for course")
)

// PersistenceFailure: the snapshot write or read did not complete. The
// in-memory record stays valid; callers may retry the save.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot cannot be parsed")
	ErrSnapshotWrite    = errors.New("snapshot write failed")
)
