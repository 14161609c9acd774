package model

import "time"

type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
)

// RoleLevel is the access level a membership carries. A lead is always an
// admin; representing the level as a single value instead of two flags makes
// a lead-without-admin state unrepresentable.
type RoleLevel string

const (
	RoleMember RoleLevel = "member"
	RoleAdmin  RoleLevel = "admin"
	RoleLead   RoleLevel = "lead"
)

func (l RoleLevel) IsLead() bool {
	return l == RoleLead
}

func (l RoleLevel) IsAdmin() bool {
	return l == RoleAdmin || l == RoleLead
}

// CanManage reports whether this level may mutate the team (post, invite,
// change roles, remove members).
func (l RoleLevel) CanManage() bool {
	return l.IsAdmin()
}

// TeamMembership is one user's relationship to one team. A membership starts
// out pending when an invitation is issued; UserID stays nil until a known
// account claims it. Only active memberships count toward team size and
// posting readiness.
type TeamMembership struct {
	ID                  int              `json:"id"`
	UUID                string           `json:"uuid"`
	TeamID              int              `json:"team_id"`
	Team                *Team            `json:"team,omitempty" gorm:"foreignKey:TeamID;references:ID"`
	UserID              *int             `json:"user_id"`
	User                *User            `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Email               string           `json:"email"`
	Role                string           `json:"role"`
	Level               RoleLevel        `json:"level"`
	Status              MembershipStatus `json:"status"`
	InvitedAt           time.Time        `json:"invited_at"`
	InvitationToken     string           `json:"-"`
	InvitationExpiresAt *time.Time       `json:"invitation_expires_at"`
	InvitedByID         int              `json:"invited_by_id"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (m *TeamMembership) IsActive() bool {
	return m.Status == MembershipActive
}

func (m *TeamMembership) IsPending() bool {
	return m.Status == MembershipPending
}

// InvitationExpired reports whether a pending invitation can no longer be
// accepted. A membership without an expiry never expires.
func (m *TeamMembership) InvitationExpired(now time.Time) bool {
	if m.InvitationExpiresAt == nil {
		return false
	}
	return m.InvitationExpiresAt.Before(now)
}
