// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors defines the error kinds raised while acquiring a challenge.
// Every component returns the most specific kind it can determine; callers
// match on Kind instead of on concrete error types.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies the category of an Error.
type Kind string

// Error kinds
const (
	// KindInvalidRepositoryURL is returned when a repository URL does not have a supported shape
	KindInvalidRepositoryURL Kind = "invalid_repository_url"

	// KindUnsupportedHost is returned when the repository is not hosted on a supported forge
	KindUnsupportedHost Kind = "unsupported_host"

	// KindCatalogNotFound is returned when the repository or challenges directory does not exist
	KindCatalogNotFound Kind = "catalog_not_found"

	// KindCatalogAccessDenied is returned when the forge refuses to list the challenges directory
	KindCatalogAccessDenied Kind = "catalog_access_denied"

	// KindCatalogTransport is returned for any other failure while listing challenges
	KindCatalogTransport Kind = "catalog_transport"

	// KindFetchFailed is returned when the challenge sub-tree could not be fetched
	KindFetchFailed Kind = "fetch_failed"

	// KindDestinationExists is returned when the destination exists and may not be overwritten
	KindDestinationExists Kind = "destination_exists"

	// KindCopyFailed is returned when the challenge could not be copied to its destination
	KindCopyFailed Kind = "copy_failed"

	// KindInstallFailed is returned when the package manager install did not succeed
	KindInstallFailed Kind = "install_failed"
)

// Error represents a classified failure of the challenge pipeline
type Error struct {
	// Kind is the error kind
	Kind Kind

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error

	// StatusCode is the HTTP status reported by the forge, for catalog kinds
	StatusCode int

	// ExitCode is the exit status of the failed subprocess, for KindInstallFailed
	ExitCode int

	// Path is the filesystem path involved, for KindDestinationExists and KindCopyFailed
	Path string
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidRepositoryURLError creates a new invalid repository URL error
func NewInvalidRepositoryURLError(url string) *Error {
	return NewError(KindInvalidRepositoryURL, fmt.Sprintf("invalid repository URL: %q", url), nil)
}

// NewUnsupportedHostError creates a new unsupported host error
func NewUnsupportedHostError(host string) *Error {
	return NewError(KindUnsupportedHost, fmt.Sprintf("only GitHub repositories are supported, got host %q", host), nil)
}

// NewCatalogNotFoundError creates a new catalog not found error
func NewCatalogNotFoundError(message string, cause error) *Error {
	e := NewError(KindCatalogNotFound, message, cause)
	e.StatusCode = 404
	return e
}

// NewCatalogAccessDeniedError creates a new catalog access denied error
func NewCatalogAccessDeniedError(message string, cause error) *Error {
	e := NewError(KindCatalogAccessDenied, message, cause)
	e.StatusCode = 403
	return e
}

// NewCatalogTransportError creates a new catalog transport error.
// statusCode is zero when no HTTP response was received.
func NewCatalogTransportError(message string, statusCode int, cause error) *Error {
	e := NewError(KindCatalogTransport, message, cause)
	e.StatusCode = statusCode
	return e
}

// NewFetchFailedError creates a new fetch failed error
func NewFetchFailedError(message string, cause error) *Error {
	return NewError(KindFetchFailed, message, cause)
}

// NewDestinationExistsError creates a new destination exists error
func NewDestinationExistsError(path string) *Error {
	e := NewError(KindDestinationExists, fmt.Sprintf("destination %s already exists", path), nil)
	e.Path = path
	return e
}

// NewCopyFailedError creates a new copy failed error
func NewCopyFailedError(path, message string, cause error) *Error {
	e := NewError(KindCopyFailed, message, cause)
	e.Path = path
	return e
}

// NewInstallFailedError creates a new install failed error.
// exitCode is -1 when the package manager could not be started.
func NewInstallFailedError(message string, exitCode int, cause error) *Error {
	e := NewError(KindInstallFailed, message, cause)
	e.ExitCode = exitCode
	return e
}

// KindOf returns the kind of the first Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !stderrors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// As returns the first Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

func isKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsInvalidRepositoryURL checks if the error is an invalid repository URL error
func IsInvalidRepositoryURL(err error) bool {
	return isKind(err, KindInvalidRepositoryURL)
}

// IsUnsupportedHost checks if the error is an unsupported host error
func IsUnsupportedHost(err error) bool {
	return isKind(err, KindUnsupportedHost)
}

// IsCatalogNotFound checks if the error is a catalog not found error
func IsCatalogNotFound(err error) bool {
	return isKind(err, KindCatalogNotFound)
}

// IsCatalogAccessDenied checks if the error is a catalog access denied error
func IsCatalogAccessDenied(err error) bool {
	return isKind(err, KindCatalogAccessDenied)
}

// IsCatalogTransport checks if the error is a catalog transport error
func IsCatalogTransport(err error) bool {
	return isKind(err, KindCatalogTransport)
}

// IsFetchFailed checks if the error is a fetch failed error
func IsFetchFailed(err error) bool {
	return isKind(err, KindFetchFailed)
}

// IsDestinationExists checks if the error is a destination exists error
func IsDestinationExists(err error) bool {
	return isKind(err, KindDestinationExists)
}

// IsCopyFailed checks if the error is a copy failed error
func IsCopyFailed(err error) bool {
	return isKind(err, KindCopyFailed)
}

// IsInstallFailed checks if the error is an install failed error
func IsInstallFailed(err error) bool {
	return isKind(err, KindInstallFailed)
}
