// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package challenges

import (
	"github.com/stacklok/valor/pkg/catalog"
	"github.com/stacklok/valor/pkg/installer"
)

// EventType identifies a lifecycle notification.
type EventType string

// Event types
const (
	EventCatalogFetched   EventType = "catalog_fetched"
	EventCatalogEmpty     EventType = "catalog_empty"
	EventFetchStarted     EventType = "fetch_started"
	EventFetchSucceeded   EventType = "fetch_succeeded"
	EventFetchFailed      EventType = "fetch_failed"
	EventCopyStarted      EventType = "copy_started"
	EventCopySucceeded    EventType = "copy_succeeded"
	EventCopyFailed       EventType = "copy_failed"
	EventGitInitSucceeded EventType = "git_init_succeeded"
	EventGitInitFailed    EventType = "git_init_failed"
	EventInstallStarted   EventType = "install_started"
	EventInstallSucceeded EventType = "install_succeeded"
	EventInstallFailed    EventType = "install_failed"
	EventCompleted        EventType = "completed"
)

// Event is a user-facing progress notification. It never carries the
// workspace path.
type Event struct {
	Type EventType
	// Count is the number of challenges, for EventCatalogFetched
	Count int
	// Challenge is the selected challenge, once known
	Challenge catalog.Challenge
	// Destination is where the challenge is copied
	Destination string
	// PackageManager is set for install events and EventCompleted
	PackageManager installer.PackageManager
	// Installed reports whether dependencies were installed, for EventCompleted
	Installed bool
	// Err is the failure, for *_failed events
	Err error
}

// Notifier receives lifecycle events. Notify must not block.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
