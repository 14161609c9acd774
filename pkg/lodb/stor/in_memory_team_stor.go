package stor

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"github.com/liftout/liftout/pkg/lodb/model"
)

type InMemoryTeamStor struct {
	ErrToReturn error
	teams       []model.Team
	memberships *InMemoryMembershipStor
	lastID      int
}

// NewInMemoryTeamStor takes the membership stor so that CreateTeam can add the
// creator's lead membership the way the gorm implementation does in its
// transaction.
func NewInMemoryTeamStor(teams []model.Team, memberships *InMemoryMembershipStor) *InMemoryTeamStor {
	return &InMemoryTeamStor{
		teams:       teams,
		memberships: memberships,
		lastID:      10000,
	}
}

func (s *InMemoryTeamStor) CreateTeam(team *model.Team) (*model.Team, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	teamUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	s.lastID = s.lastID + 1
	team.ID = s.lastID
	team.UUID = teamUUID
	team.Slug = slug.Make(team.Name)
	team.PostingStatus = model.PostingDraft
	team.Size = 1
	s.teams = append(s.teams, *team)

	creatorID := team.CreatorID
	_, err = s.memberships.CreateInvitation(&model.TeamMembership{
		TeamID:      team.ID,
		UserID:      &creatorID,
		Role:        "Team Lead",
		Level:       model.RoleLead,
		InvitedAt:   time.Now(),
		InvitedByID: creatorID,
	})
	if err != nil {
		return nil, err
	}

	// The creator's membership is active from the start, not pending.
	s.memberships.memberships[len(s.memberships.memberships)-1].Status = model.MembershipActive

	return team, nil
}

func (s *InMemoryTeamStor) GetTeamByID(teamID int) (*model.Team, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.teams {
		if s.teams[i].ID == teamID {
			t := s.teams[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryTeamStor) GetTeamBySlug(teamSlug string) (*model.Team, error) {
	for i := range s.teams {
		if s.teams[i].Slug == teamSlug {
			t := s.teams[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryTeamStor) MarkTeamPosted(teamID int, postedAt time.Time) (*model.Team, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.teams {
		if s.teams[i].ID != teamID {
			continue
		}

		if s.teams[i].PostingStatus == model.PostingDraft {
			at := postedAt
			s.teams[i].PostingStatus = model.PostingPosted
			s.teams[i].PostedAt = &at
			s.teams[i].UnpostedAt = nil
			if s.teams[i].AvailabilityStatus == "" {
				s.teams[i].AvailabilityStatus = "available"
			}
		}

		t := s.teams[i]
		return &t, nil
	}

	return nil, ErrNotFound
}

func (s *InMemoryTeamStor) MarkTeamUnposted(teamID int, unpostedAt time.Time) (*model.Team, error) {
	for i := range s.teams {
		if s.teams[i].ID != teamID {
			continue
		}

		if s.teams[i].PostingStatus == model.PostingPosted {
			at := unpostedAt
			s.teams[i].PostingStatus = model.PostingDraft
			s.teams[i].UnpostedAt = &at
		}

		t := s.teams[i]
		return &t, nil
	}

	return nil, ErrNotFound
}

// DecrementSize is used by the in-memory membership stor when a member is
// removed, mirroring the size update the gorm stor does in its transaction.
func (s *InMemoryTeamStor) DecrementSize(teamID int) {
	for i := range s.teams {
		if s.teams[i].ID == teamID {
			s.teams[i].Size = s.teams[i].Size - 1
			return
		}
	}
}
