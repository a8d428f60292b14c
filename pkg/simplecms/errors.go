package simplecms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error types
var (
	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrArticleNotFound indicates an article was not found
	ErrArticleNotFound = errors.New("article not found")

	// ErrSectionNotFound indicates a section was not found
	ErrSectionNotFound = errors.New("section not found")

	// ErrStyleNotFound indicates the style row of a section was not found
	ErrStyleNotFound = errors.New("style not found")

	// ErrBlobNotFound indicates a blob key has no object in the blob store
	ErrBlobNotFound = errors.New("object not found")

	// ErrArticleNameExists indicates the owner already has an article with that name
	ErrArticleNameExists = errors.New("existing article name")

	// ErrUserNameExists indicates the user name is taken
	ErrUserNameExists = errors.New("existing user name")

	// ErrImageNameInUse indicates the blob key is referenced by another row
	ErrImageNameInUse = errors.New("image name already in use")

	// ErrMissingAsset indicates an image operation arrived without its file or key
	ErrMissingAsset = errors.New("file or image name missing")

	// ErrImageKeyMissing indicates an image section has no blob key
	ErrImageKeyMissing = errors.New("image section without image name")

	// ErrIncorrectCredentials indicates a login with a wrong name or password
	ErrIncorrectCredentials = errors.New("incorrect password")

	// ErrSigningSecretMissing indicates tokens cannot be issued
	ErrSigningSecretMissing = errors.New("secret key is not provided")

	// ErrURLSigningUnsupported indicates the blob store cannot produce signed URLs
	ErrURLSigningUnsupported = errors.New("signed urls not supported by blob store")
)

// ValidationError lists the fields of an input that failed validation,
// keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ArticleError represents an error related to article operations
type ArticleError struct {
	ArticleID int64
	Op        string
	Err       error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("article operation %s failed for article %d: %v", e.Op, e.ArticleID, e.Err)
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// SectionError represents an error related to section operations
type SectionError struct {
	SectionID int64
	Op        string
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section operation %s failed for section %d: %v", e.Op, e.SectionID, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrArticleNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrStyleNotFound)
}

// IsConflict reports whether err is a uniqueness conflict on a name.
func IsConflict(err error) bool {
	return errors.Is(err, ErrArticleNameExists) || errors.Is(err, ErrUserNameExists)
}
