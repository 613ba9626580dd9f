// ABOUTME: Error taxonomy shared by the record store, blob store and importer.
// ABOUTME: Substrate failures cross package boundaries only as *Error with the cause attached.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnsupportedSubstrate Kind = "unsupported substrate"
	KindWrite                Kind = "write failed"
	KindRead                 Kind = "read failed"
	KindDuplicateID          Kind = "duplicate id"
	KindNotFound             Kind = "not found"
	KindImportFormat         Kind = "invalid import file"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrUnsupportedSubstrate = errors.New(string(KindUnsupportedSubstrate))
	ErrWrite                = errors.New(string(KindWrite))
	ErrRead                 = errors.New(string(KindRead))
	ErrDuplicateID          = errors.New(string(KindDuplicateID))
	ErrNotFound             = errors.New(string(KindNotFound))
	ErrImportFormat         = errors.New(string(KindImportFormat))
)

var sentinels = map[Kind]error{
	KindUnsupportedSubstrate: ErrUnsupportedSubstrate,
	KindWrite:                ErrWrite,
	KindRead:                 ErrRead,
	KindDuplicateID:          ErrDuplicateID,
	KindNotFound:             ErrNotFound,
	KindImportFormat:         ErrImportFormat,
}

// Error is a classified failure. Err keeps the substrate's original error.
type Error struct {
	Kind       Kind
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Collection != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Collection)
		if e.ID != "" {
			sb.WriteString("/")
			sb.WriteString(e.ID)
		}
	} else if e.ID != "" {
		sb.WriteString(" ")
		sb.WriteString(e.ID)
	}
	sb.WriteString(": ")
	sb.WriteString(string(e.Kind))
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New builds an *Error.
func New(kind Kind, op, collection, id string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Collection: collection, ID: id, Err: cause}
}

// Wrap classifies err as kind unless it is already an *Error, in which case
// it is returned unchanged so the original classification wins.
func Wrap(kind Kind, op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return New(kind, op, collection, id, err)
}

// Importf builds an import format error with a formatted cause.
func Importf(format string, args ...any) *Error {
	return New(KindImportFormat, "import", "", "", fmt.Errorf(format, args...))
}

// KindOf returns the kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
