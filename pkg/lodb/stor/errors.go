package stor

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrNotImplemented   = errors.New("not implemented")
	ErrMemberFloor      = errors.New("team cannot drop below two active members")
	ErrCreatorProtected = errors.New("team creator cannot be removed")
	ErrNotActive        = errors.New("membership is not active")
	ErrStaleInvitation  = errors.New("invitation is no longer pending")
)
