package loteam

import (
	"errors"
	"fmt"

	"github.com/liftout/liftout/pkg/lock"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
)

// MembershipService manages the active roster: role changes and soft
// removal. Removal serializes per team so the member floor check can't be
// raced past.
type MembershipService struct {
	teamStor       stor.TeamStor
	membershipStor stor.MembershipStor
	teamLocks      *lock.IDLocker
}

func NewMembershipService(teamStor stor.TeamStor, membershipStor stor.MembershipStor, teamLocks *lock.IDLocker) *MembershipService {
	return &MembershipService{
		teamStor:       teamStor,
		membershipStor: membershipStor,
		teamLocks:      teamLocks,
	}
}

func (s *MembershipService) ActiveMembers(teamID int) ([]model.TeamMembership, error) {
	if _, err := s.teamStor.GetTeamByID(teamID); err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.membershipStor.GetActiveMembers(teamID)
}

// UpdateRole changes a membership's descriptive role and access level. Lead
// implies admin by construction of RoleLevel, so there is no separate admin
// flag to keep consistent.
func (s *MembershipService) UpdateRole(teamID, membershipID, actorID int, role string, level model.RoleLevel) (*model.TeamMembership, error) {
	team, err := s.teamStor.GetTeamByID(teamID)
	if err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed, err := canManageTeam(s.membershipStor, team, actorID)
	switch {
	case err != nil:
		return nil, err
	case !allowed:
		return nil, ErrForbidden
	}

	membership, err := s.membershipStor.UpdateRole(teamID, membershipID, role, level)
	if errors.Is(err, stor.ErrNotFound) {
		return nil, ErrNotFound
	}
	return membership, err
}

// RemoveMember soft deletes an active membership. It fails when the removal
// would leave fewer than two active members or when the target is the team
// creator.
func (s *MembershipService) RemoveMember(teamID, membershipID, actorID int) error {
	return s.teamLocks.WithLock(teamID, func() error {
		team, err := s.teamStor.GetTeamByID(teamID)
		if err != nil {
			if errors.Is(err, stor.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		allowed, err := canManageTeam(s.membershipStor, team, actorID)
		switch {
		case err != nil:
			return err
		case !allowed:
			return ErrForbidden
		}

		err = s.membershipStor.RemoveMember(teamID, membershipID)
		switch {
		case errors.Is(err, stor.ErrNotFound):
			return ErrNotFound
		case errors.Is(err, stor.ErrNotActive):
			return &InvalidStateError{Reason: "membership is not active"}
		case errors.Is(err, stor.ErrMemberFloor):
			return &InvalidOperationError{
				Reason: fmt.Sprintf("a team must keep at least %d active members", MinActiveMembers),
			}
		case errors.Is(err, stor.ErrCreatorProtected):
			return &InvalidOperationError{Reason: "the team creator cannot be removed"}
		}
		return err
	})
}
