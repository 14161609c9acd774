package loteam

import (
	"time"

	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
	"github.com/liftout/liftout/pkg/loteam/notify"
)

func intPtr(i int) *int {
	return &i
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func makeUser(id int, first, last, bio string) *model.User {
	return &model.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     first + "@example.com",
		Bio:       bio,
	}
}

func activeMembership(id, teamID int, user *model.User, level model.RoleLevel) model.TeamMembership {
	return model.TeamMembership{
		ID:     id,
		TeamID: teamID,
		UserID: intPtr(user.ID),
		User:   user,
		Email:  user.Email,
		Level:  level,
		Status: model.MembershipActive,
	}
}

// fixture wires the in-memory stors behind all three services the way
// NewGormStors wires the gorm ones in loapid.
type fixture struct {
	teamStor       *stor.InMemoryTeamStor
	membershipStor *stor.InMemoryMembershipStor
	userStor       *stor.InMemoryUserStor
	notifier       *notify.MockNotifier
	teams          *TeamService
	memberships    *MembershipService
	invitations    *InvitationService
}

func newFixture(teams []model.Team, memberships []model.TeamMembership, users []model.User) *fixture {
	f := &fixture{
		membershipStor: stor.NewInMemoryMembershipStor(memberships),
		userStor:       stor.NewInMemoryUserStor(users),
		notifier:       notify.NewMockNotifier(),
	}
	f.teamStor = stor.NewInMemoryTeamStor(teams, f.membershipStor)
	f.membershipStor.UseTeamStor(f.teamStor).UseUserStor(f.userStor)

	f.teams = NewTeamService(f.teamStor, f.membershipStor)
	f.memberships = NewMembershipService(f.teamStor, f.membershipStor, f.teams.Locker())
	f.invitations = NewInvitationService(f.teamStor, f.membershipStor, f.userStor, f.notifier)

	return f
}

// readyTeamFixture builds a team that satisfies all five posting
// requirements: creator lead + one admin, complete profiles, long
// description, industry set.
func readyTeamFixture() *fixture {
	lead := makeUser(1, "Ada", "Lovelace", "Engineering leader with a decade of platform work")
	admin := makeUser(2, "Grace", "Hopper", "Compiler and systems engineer")

	team := model.Team{
		ID:            1,
		Name:          "Platform Crew",
		Description:   "A platform team that ships infrastructure together",
		Industry:      "Fintech",
		Size:          2,
		PostingStatus: model.PostingDraft,
		CreatorID:     lead.ID,
	}

	memberships := []model.TeamMembership{
		activeMembership(1, team.ID, lead, model.RoleLead),
		activeMembership(2, team.ID, admin, model.RoleAdmin),
	}

	return newFixture([]model.Team{team}, memberships, []model.User{*lead, *admin})
}
