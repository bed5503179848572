// Package domain defines the user-facing failure conditions of the election
// workflow. All of them are recoverable; controllers turn them into JSON
// messages. Callers test with errors.Is.
package domain

import "errors"

var (
	ErrDuplicateHandle        = errors.New("username already exists")
	ErrInvalidUpload          = errors.New("two valid image files are required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPendingApproval        = errors.New("account is awaiting admin approval")
	ErrForbidden              = errors.New("forbidden")
	ErrNotVerified            = errors.New("voter is not verified")
	ErrElectionNotStarted     = errors.New("election has not started")
	ErrElectionClosed         = errors.New("election has closed")
	ErrAlreadyVoted           = errors.New("vote already cast in this election")
	ErrResultsNotYetAvailable = errors.New("results are not available until the election ends")
	ErrNotFound               = errors.New("record not found")
)
