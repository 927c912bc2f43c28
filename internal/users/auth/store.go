// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on duplicate email/channel)
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateRefreshToken replaces the stored refresh token for a user.
		Passing an empty token invalidates the current session.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshToken(context context.Context, userID, token string) error

	/*
		CountByRole returns the number of accounts holding the given role.
		Used for the superadmin bootstrap rule.

		Parameters:
		  - context: context.Context
		  - role: string

		Returns:
		  - int64: Account count
		  - error: Database retrieval failures
	*/
	CountByRole(context context.Context, role string) (int64, error)

	/*
		SubscribedChannelIDs returns the IDs of every channel the user subscribes to.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []string: Channel IDs (empty slice when none)
		  - error: Database retrieval failures
	*/
	SubscribedChannelIDs(context context.Context, userID string) ([]string, error)
}
