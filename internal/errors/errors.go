// Package errors provides standardized error handling for csvdash.
// It defines common error types, constants, and helper functions for consistent
// error creation, wrapping, and handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Source error kinds
	FileNotFound
	InvalidPath
	LoadFailed
	ParseFailed
	// Status store error kinds
	CorruptState
	PersistFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Catalog error kinds
	UnknownFolder
	UnknownFile
)

var kindNames = map[ErrorKind]string{
	Unknown:        "unknown",
	FileNotFound:   "file_not_found",
	InvalidPath:    "invalid_path",
	LoadFailed:     "load_failed",
	ParseFailed:    "parse_failed",
	CorruptState:   "corrupt_state",
	PersistFailed:  "persist_failed",
	InvalidConfig:  "invalid_config",
	ConfigNotFound: "config_not_found",
	UnknownFolder:  "unknown_folder",
	UnknownFile:    "unknown_file",
}

// String returns a stable name for the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// LoadError represents a failure to load one catalog file.
type LoadError struct {
	ApplicationError
	folder string
	file   string
}

// NewLoadError creates a new load error for the given folder and file.
func NewLoadError(msg, folder, file string, kind ErrorKind, err error) *LoadError {
	return &LoadError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		folder: folder,
		file:   file,
	}
}

// Error returns the load error message
func (e *LoadError) Error() string {
	if p := e.Path(); p != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, p, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, p)
	}
	return e.ApplicationError.Error()
}

// Folder returns the catalog folder of the failed file
func (e *LoadError) Folder() string {
	return e.folder
}

// File returns the failed file name
func (e *LoadError) File() string {
	return e.file
}

// Path returns folder/file, or whichever part is set.
func (e *LoadError) Path() string {
	switch {
	case e.folder != "" && e.file != "":
		return e.folder + "/" + e.file
	case e.file != "":
		return e.file
	default:
		return e.folder
	}
}

// StoreError represents errors reading or writing the durable key-value store
type StoreError struct {
	ApplicationError
	key string
}

// NewStoreError creates a new store error
func NewStoreError(msg string, key string, kind ErrorKind, err error) *StoreError {
	return &StoreError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		key: key,
	}
}

// Error returns the store error message
func (e *StoreError) Error() string {
	if e.key != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.key, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.key)
	}
	return e.ApplicationError.Error()
}

// Key returns the store key associated with the error
func (e *StoreError) Key() string {
	return e.key
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// CatalogError is returned when an operation names a folder or file the
// catalog does not contain.
type CatalogError struct {
	ApplicationError
	folder string
	file   string
}

// NewCatalogError creates a new catalog error
func NewCatalogError(msg, folder, file string, kind ErrorKind) *CatalogError {
	return &CatalogError{
		ApplicationError: ApplicationError{
			msg:  msg,
			kind: kind,
		},
		folder: folder,
		file:   file,
	}
}

// Error returns the catalog error message
func (e *CatalogError) Error() string {
	switch {
	case e.folder != "" && e.file != "":
		return fmt.Sprintf("%s: %s/%s", e.msg, e.folder, e.file)
	case e.folder != "":
		return fmt.Sprintf("%s: %s", e.msg, e.folder)
	}
	return e.ApplicationError.Error()
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

type kinder interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first typed error in err's chain that
// carries a non-Unknown kind.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinder); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// HasKind reports whether any error in err's chain has the given kind.
func HasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(kinder); ok && k.Kind() == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return HasKind(err, FileNotFound)
}

// IsCorruptState checks if the error reports an unparsable stored value
func IsCorruptState(err error) bool {
	return HasKind(err, CorruptState)
}

// IsConfigNotFound checks if the error reports a missing config file
func IsConfigNotFound(err error) bool {
	return HasKind(err, ConfigNotFound)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return HasKind(err, InvalidConfig)
}

// IsUnknownEntry checks if the error names a folder or file outside the catalog
func IsUnknownEntry(err error) bool {
	return HasKind(err, UnknownFolder) || HasKind(err, UnknownFile)
}
