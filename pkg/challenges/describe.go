// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package challenges

import (
	"github.com/stacklok/valor/pkg/errors"
)

// User-facing failure messages.
const (
	MessageCatalogNotFound = "Repository or challenges directory not found. " +
		"Please check the repository URL and ensure it contains a \"challenges\" directory."
	MessageCatalogAccessDenied = "Access denied to the repository. " +
		"Please check if the repository is public or if you have access."
	MessageCatalogTransport = "Failed to fetch challenges from GitHub API"
	MessageSetupFailed      = "Failed to setup challenge"
	MessageUnexpected       = "An unexpected error occurred"
)

// Description is the user-facing rendering of a pipeline failure.
type Description struct {
	// Message is the headline
	Message string
	// Detail is the underlying error text; empty when Message is guidance
	// that stands on its own
	Detail string
}

// Describe maps err to the message shown to the user.
func Describe(err error) Description {
	if err == nil {
		return Description{}
	}

	e, ok := errors.As(err)
	if !ok {
		return Description{Message: MessageSetupFailed, Detail: err.Error()}
	}

	switch e.Kind {
	case errors.KindCatalogNotFound:
		return Description{Message: MessageCatalogNotFound}
	case errors.KindCatalogAccessDenied:
		return Description{Message: MessageCatalogAccessDenied}
	case errors.KindCatalogTransport:
		return Description{Message: MessageCatalogTransport, Detail: detail(e)}
	case errors.KindInvalidRepositoryURL,
		errors.KindUnsupportedHost,
		errors.KindFetchFailed,
		errors.KindDestinationExists,
		errors.KindCopyFailed,
		errors.KindInstallFailed:
		return Description{Message: MessageSetupFailed, Detail: detail(e)}
	default:
		return Description{Message: MessageUnexpected, Detail: err.Error()}
	}
}

func detail(e *errors.Error) string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}
