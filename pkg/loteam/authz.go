package loteam

import (
	"errors"

	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
)

// canManageTeam reports whether userID may mutate the team: the creator
// always can, otherwise an active admin or lead membership is required.
func canManageTeam(membershipStor stor.MembershipStor, team *model.Team, userID int) (bool, error) {
	if team.CreatorID == userID {
		return true, nil
	}

	membership, err := membershipStor.GetActiveMembershipForUser(team.ID, userID)
	switch {
	case errors.Is(err, stor.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}

	return membership.Level.CanManage(), nil
}
