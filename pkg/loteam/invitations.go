package loteam

import (
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
	"github.com/liftout/liftout/pkg/loteam/notify"
)

// InvitationTTL is how long an invitation stays acceptable after it's issued
// or resent.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationService issues, resends and accepts team membership invitations.
// Resending is the only place token rotation happens.
type InvitationService struct {
	teamStor       stor.TeamStor
	membershipStor stor.MembershipStor
	userStor       stor.UserStor
	notifier       notify.Notifier
}

func NewInvitationService(teamStor stor.TeamStor, membershipStor stor.MembershipStor, userStor stor.UserStor, notifier notify.Notifier) *InvitationService {
	return &InvitationService{
		teamStor:       teamStor,
		membershipStor: membershipStor,
		userStor:       userStor,
		notifier:       notifier,
	}
}

// Invite creates a pending membership with a fresh token and a 7 day expiry,
// and notifies the invitee. When the email belongs to a known account the
// membership is claimed for that user up front. An email that already has a
// pending invitation or an active membership on the team can't be invited
// again; a pending invitation is revived with Resend instead.
func (s *InvitationService) Invite(teamID, actorID int, email, role string, level model.RoleLevel) (*model.TeamMembership, error) {
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

	existing, err := s.membershipStor.GetMembershipForEmail(teamID, email)
	switch {
	case err == nil && existing.IsActive():
		return nil, &InvalidOperationError{Reason: "email already belongs to an active member of the team"}
	case err == nil:
		return nil, &InvalidOperationError{Reason: "email already has a pending invitation for the team"}
	case !errors.Is(err, stor.ErrNotFound):
		return nil, err
	}

	var claimedID *int
	user, err := s.userStor.GetUserByEmail(email)
	switch {
	case err == nil:
		claimedID = &user.ID
	case !errors.Is(err, stor.ErrNotFound):
		return nil, err
	}

	// The account may be an active member under a different membership email,
	// such as the creator's row.
	if claimedID != nil {
		_, err := s.membershipStor.GetActiveMembershipForUser(teamID, *claimedID)
		switch {
		case err == nil:
			return nil, &InvalidOperationError{Reason: "email already belongs to an active member of the team"}
		case !errors.Is(err, stor.ErrNotFound):
			return nil, err
		}
	}

	token, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(InvitationTTL)

	membership := &model.TeamMembership{
		TeamID:              teamID,
		UserID:              claimedID,
		Email:               email,
		Role:                role,
		Level:               level,
		InvitedAt:           now,
		InvitationToken:     token,
		InvitationExpiresAt: &expiresAt,
		InvitedByID:         actorID,
	}

	membership, err = s.membershipStor.CreateInvitation(membership)
	if err != nil {
		return nil, err
	}

	s.sendNotification(team, membership, false)

	return membership, nil
}

// Resend rotates a pending invitation's token, extends its expiry to seven
// days from now, and resets invited_at. The old token can no longer be
// accepted. Allowed for the team creator, an active admin or lead, or the
// original inviter.
func (s *InvitationService) Resend(membershipID, actorID int) (*model.TeamMembership, error) {
	membership, err := s.membershipStor.GetMembershipByID(membershipID)
	if err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !membership.IsPending() {
		return nil, &InvalidStateError{Reason: "invitation was already accepted or is no longer pending"}
	}

	team, err := s.teamStor.GetTeamByID(membership.TeamID)
	if err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	allowed, err := canManageTeam(s.membershipStor, team, actorID)
	if err != nil {
		return nil, err
	}

	if !allowed && membership.InvitedByID != actorID {
		return nil, ErrForbidden
	}

	token, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	membership, err = s.membershipStor.RotateInvitation(membershipID, token, now, now.Add(InvitationTTL))
	switch {
	case errors.Is(err, stor.ErrStaleInvitation):
		// Accepted between our status check and the rotation.
		return nil, &InvalidStateError{Reason: "invitation was already accepted or is no longer pending"}
	case errors.Is(err, stor.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}

	// Audit trail for the resend; not used for control flow.
	log.WithFields(log.Fields{
		"actor_id":      actorID,
		"team_id":       team.ID,
		"invitee_email": membership.Email,
		"expires_at":    membership.InvitationExpiresAt,
	}).Info("team invitation resent")

	s.sendNotification(team, membership, true)

	return membership, nil
}

// Accept consumes a valid, non-expired token and flips the membership from
// pending to active. When userID is non-nil the membership is claimed for
// that account. Expired and already consumed tokens are rejected.
func (s *InvitationService) Accept(token string, userID *int) (*model.TeamMembership, error) {
	membership, err := s.membershipStor.GetMembershipByToken(token)
	if err != nil {
		if errors.Is(err, stor.ErrNotFound) {
			return nil, &InvalidStateError{Reason: "invitation token is not valid"}
		}
		return nil, err
	}

	if !membership.IsPending() {
		return nil, &InvalidStateError{Reason: "invitation was already accepted or is no longer pending"}
	}

	if membership.InvitationExpired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	membership, err = s.membershipStor.AcceptInvitation(token, userID)
	switch {
	case errors.Is(err, stor.ErrStaleInvitation), errors.Is(err, stor.ErrNotFound):
		// A concurrent resend or accept invalidated the token first.
		return nil, &InvalidStateError{Reason: "invitation token is not valid"}
	case err != nil:
		return nil, err
	}

	return membership, nil
}

func (s *InvitationService) sendNotification(team *model.Team, membership *model.TeamMembership, resend bool) {
	if s.notifier == nil || membership.InvitationExpiresAt == nil {
		return
	}

	err := s.notifier.SendInvitation(notify.Invitation{
		Email:     membership.Email,
		TeamName:  team.Name,
		Token:     membership.InvitationToken,
		ExpiresAt: *membership.InvitationExpiresAt,
		Resend:    resend,
	})
	if err != nil {
		// Delivery failure doesn't fail the operation; the invitee can be
		// resent to.
		log.WithFields(log.Fields{
			"team_id":       team.ID,
			"invitee_email": membership.Email,
		}).Errorf("unable to send invitation notification: %s", err)
	}
}
