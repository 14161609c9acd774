package stor

import (
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
)

type InMemoryMembershipStor struct {
	ErrToReturn error
	memberships []model.TeamMembership
	teams       *InMemoryTeamStor
	users       *InMemoryUserStor
	lastID      int
}

func NewInMemoryMembershipStor(memberships []model.TeamMembership) *InMemoryMembershipStor {
	return &InMemoryMembershipStor{
		memberships: memberships,
		lastID:      20000,
	}
}

// UseTeamStor wires in the team stor so RemoveMember can check the creator
// and decrement team size, as the gorm implementation does transactionally.
func (s *InMemoryMembershipStor) UseTeamStor(teams *InMemoryTeamStor) *InMemoryMembershipStor {
	s.teams = teams
	return s
}

// UseUserStor wires in the user stor so reads can fill in the joined User the
// way the gorm implementation preloads it.
func (s *InMemoryMembershipStor) UseUserStor(users *InMemoryUserStor) *InMemoryMembershipStor {
	s.users = users
	return s
}

func (s *InMemoryMembershipStor) resolveUser(m *model.TeamMembership) {
	if m.User != nil || m.UserID == nil || s.users == nil {
		return
	}

	if user, err := s.users.GetUserByID(*m.UserID); err == nil {
		m.User = user
	}
}

func (s *InMemoryMembershipStor) GetMembership(teamID, membershipID int) (*model.TeamMembership, error) {
	for i := range s.memberships {
		if s.memberships[i].ID == membershipID && s.memberships[i].TeamID == teamID {
			m := s.memberships[i]
			s.resolveUser(&m)
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) GetMembershipByID(membershipID int) (*model.TeamMembership, error) {
	for i := range s.memberships {
		if s.memberships[i].ID == membershipID {
			m := s.memberships[i]
			s.resolveUser(&m)
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) GetMembershipByToken(token string) (*model.TeamMembership, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	for i := range s.memberships {
		if s.memberships[i].InvitationToken == token {
			m := s.memberships[i]
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) GetActiveMembers(teamID int) ([]model.TeamMembership, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	var members []model.TeamMembership
	for i := range s.memberships {
		if s.memberships[i].TeamID == teamID && s.memberships[i].Status == model.MembershipActive {
			m := s.memberships[i]
			s.resolveUser(&m)
			members = append(members, m)
		}
	}
	return members, nil
}

func (s *InMemoryMembershipStor) GetActiveMembershipForUser(teamID, userID int) (*model.TeamMembership, error) {
	for i := range s.memberships {
		m := s.memberships[i]
		if m.TeamID == teamID && m.Status == model.MembershipActive && m.UserID != nil && *m.UserID == userID {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) GetMembershipForEmail(teamID int, email string) (*model.TeamMembership, error) {
	if email == "" {
		return nil, ErrNotFound
	}

	for i := range s.memberships {
		m := s.memberships[i]
		if m.TeamID == teamID && m.Email == email && m.Status != model.MembershipInactive {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) CountActiveMembers(teamID int) (int, error) {
	count := 0
	for i := range s.memberships {
		if s.memberships[i].TeamID == teamID && s.memberships[i].Status == model.MembershipActive {
			count = count + 1
		}
	}
	return count, nil
}

func (s *InMemoryMembershipStor) CreateInvitation(membership *model.TeamMembership) (*model.TeamMembership, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	membershipUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	s.lastID = s.lastID + 1
	membership.ID = s.lastID
	membership.UUID = membershipUUID
	membership.Status = model.MembershipPending
	s.memberships = append(s.memberships, *membership)

	m := *membership
	return &m, nil
}

func (s *InMemoryMembershipStor) UpdateRole(teamID, membershipID int, role string, level model.RoleLevel) (*model.TeamMembership, error) {
	for i := range s.memberships {
		if s.memberships[i].ID != membershipID || s.memberships[i].TeamID != teamID {
			continue
		}

		if s.memberships[i].Status != model.MembershipActive {
			return nil, ErrNotFound
		}

		s.memberships[i].Role = role
		s.memberships[i].Level = level
		m := s.memberships[i]
		return &m, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) RemoveMember(teamID, membershipID int) error {
	for i := range s.memberships {
		if s.memberships[i].ID != membershipID || s.memberships[i].TeamID != teamID {
			continue
		}

		if s.memberships[i].Status != model.MembershipActive {
			return ErrNotActive
		}

		if s.teams != nil {
			team, err := s.teams.GetTeamByID(teamID)
			if err != nil {
				return err
			}

			if s.memberships[i].UserID != nil && *s.memberships[i].UserID == team.CreatorID {
				return ErrCreatorProtected
			}
		}

		activeCount, _ := s.CountActiveMembers(teamID)
		if activeCount-1 < 2 {
			return ErrMemberFloor
		}

		s.memberships[i].Status = model.MembershipInactive
		if s.teams != nil {
			s.teams.DecrementSize(teamID)
		}
		return nil
	}
	return ErrNotFound
}

func (s *InMemoryMembershipStor) RotateInvitation(membershipID int, token string, invitedAt time.Time, expiresAt time.Time) (*model.TeamMembership, error) {
	for i := range s.memberships {
		if s.memberships[i].ID != membershipID {
			continue
		}

		if s.memberships[i].Status != model.MembershipPending {
			return nil, ErrStaleInvitation
		}

		at := expiresAt
		s.memberships[i].InvitationToken = token
		s.memberships[i].InvitedAt = invitedAt
		s.memberships[i].InvitationExpiresAt = &at
		m := s.memberships[i]
		return &m, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryMembershipStor) AcceptInvitation(token string, userID *int) (*model.TeamMembership, error) {
	for i := range s.memberships {
		if s.memberships[i].InvitationToken != token || token == "" {
			continue
		}

		if s.memberships[i].Status != model.MembershipPending {
			return nil, ErrStaleInvitation
		}

		s.memberships[i].Status = model.MembershipActive
		s.memberships[i].InvitationToken = ""
		if userID != nil {
			s.memberships[i].UserID = userID
		}
		m := s.memberships[i]
		return &m, nil
	}
	return nil, ErrNotFound
}
