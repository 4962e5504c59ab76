package store

import "errors"

var (
	// ErrNoStoredSession indicates no credential pair is persisted locally.
	ErrNoStoredSession = errors.New("no stored session")

	// ErrNotificationNotFound indicates the referenced notification is not
	// in the local cache.
	ErrNotificationNotFound = errors.New("notification not found")
)
