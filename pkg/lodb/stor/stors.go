package stor

import (
	"time"

	"github.com/liftout/liftout/pkg/lodb/model"
	"gorm.io/gorm"
)

type TeamStor interface {
	CreateTeam(team *model.Team) (*model.Team, error)
	GetTeamByID(teamID int) (*model.Team, error)
	GetTeamBySlug(slug string) (*model.Team, error)

	// MarkTeamPosted transitions a draft team to posted, stamping postedAt and
	// clearing any previous unposted timestamp. The underlying update is
	// conditional on the team still being in draft, so concurrent posts
	// resolve to a single transition. Returns the team as it stands after the
	// call, whether or not this call performed the transition.
	MarkTeamPosted(teamID int, postedAt time.Time) (*model.Team, error)

	// MarkTeamUnposted is the reverse transition, stamping unpostedAt.
	MarkTeamUnposted(teamID int, unpostedAt time.Time) (*model.Team, error)
}

type MembershipStor interface {
	GetMembership(teamID, membershipID int) (*model.TeamMembership, error)
	GetMembershipByID(membershipID int) (*model.TeamMembership, error)
	GetMembershipByToken(token string) (*model.TeamMembership, error)
	GetActiveMembers(teamID int) ([]model.TeamMembership, error)
	GetActiveMembershipForUser(teamID, userID int) (*model.TeamMembership, error)

	// GetMembershipForEmail returns the pending or active membership tied to
	// email on the team, or ErrNotFound when the email has neither. Inactive
	// memberships don't count; a removed member can be invited again.
	GetMembershipForEmail(teamID int, email string) (*model.TeamMembership, error)
	CountActiveMembers(teamID int) (int, error)
	CreateInvitation(membership *model.TeamMembership) (*model.TeamMembership, error)
	UpdateRole(teamID, membershipID int, role string, level model.RoleLevel) (*model.TeamMembership, error)

	// RemoveMember marks an active membership inactive and decrements the
	// team's size counter. The count check and the mutation run in one
	// transaction; ErrMemberFloor or ErrCreatorProtected are returned when
	// the removal is structurally disallowed.
	RemoveMember(teamID, membershipID int) error

	// RotateInvitation replaces a pending invitation's token and extends its
	// expiry. The update is conditional on the membership still being
	// pending; ErrStaleInvitation is returned when it no longer is.
	RotateInvitation(membershipID int, token string, invitedAt time.Time, expiresAt time.Time) (*model.TeamMembership, error)

	// AcceptInvitation flips a pending membership to active, claims it for
	// userID when non-nil, and clears the token so it cannot be replayed.
	// Conditional on the token still being current; ErrStaleInvitation is
	// returned when a concurrent resend or accept got there first.
	AcceptInvitation(token string, userID *int) (*model.TeamMembership, error)
}

type UserStor interface {
	CreateUser(user *model.User) (*model.User, error)
	GetUserByID(userID int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByAPIToken(apitoken string) (*model.User, error)
}

type Stors struct {
	TeamStor       TeamStor
	MembershipStor MembershipStor
	UserStor       UserStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		TeamStor:       NewGormTeamStor(db),
		MembershipStor: NewGormMembershipStor(db),
		UserStor:       NewGormUserStor(db),
	}
}
