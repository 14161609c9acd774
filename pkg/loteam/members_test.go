package loteam

import (
	"errors"
	"sync"
	"testing"

	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/stretchr/testify/require"
)

// threeMemberFixture is a ready team plus a third plain member.
func threeMemberFixture() *fixture {
	lead := makeUser(1, "Ada", "Lovelace", "Engineering leader with a decade of platform work")
	admin := makeUser(2, "Grace", "Hopper", "Compiler and systems engineer")
	member := makeUser(3, "Edsger", "Dijkstra", "Distributed systems engineer")

	team := model.Team{
		ID:            1,
		Name:          "Platform Crew",
		Description:   "A platform team that ships infrastructure together",
		Industry:      "Fintech",
		Size:          3,
		PostingStatus: model.PostingDraft,
		CreatorID:     lead.ID,
	}

	memberships := []model.TeamMembership{
		activeMembership(1, team.ID, lead, model.RoleLead),
		activeMembership(2, team.ID, admin, model.RoleAdmin),
		activeMembership(3, team.ID, member, model.RoleMember),
	}

	return newFixture([]model.Team{team}, memberships, []model.User{*lead, *admin, *member})
}

func TestRemoveMember(t *testing.T) {
	f := threeMemberFixture()

	err := f.memberships.RemoveMember(1, 3, 1)
	require.NoError(t, err)

	members, err := f.memberships.ActiveMembers(1)
	require.NoError(t, err)
	require.Len(t, members, 2)

	team, err := f.teams.GetTeam(1)
	require.NoError(t, err)
	require.Equal(t, 2, team.Size)
}

func TestRemoveMemberHoldsTheFloor(t *testing.T) {
	f := threeMemberFixture()

	err := f.memberships.RemoveMember(1, 3, 1)
	require.NoError(t, err)

	// Down to two active members; no further removal may succeed.
	var invalidOpErr *InvalidOperationError
	err = f.memberships.RemoveMember(1, 2, 1)
	require.ErrorAs(t, err, &invalidOpErr)

	count, err := f.membershipStor.CountActiveMembers(1)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestConcurrentRemovalsHoldTheFloor(t *testing.T) {
	f := threeMemberFixture()

	// Two racing removals on a three member team; only one may pass the floor
	// check.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, membershipID := range []int{2, 3} {
		wg.Add(1)
		go func(i, membershipID int) {
			defer wg.Done()
			errs[i] = f.memberships.RemoveMember(1, membershipID, 1)
		}(i, membershipID)
	}
	wg.Wait()

	removed, refused := 0, 0
	for _, err := range errs {
		var invalidOpErr *InvalidOperationError
		switch {
		case err == nil:
			removed++
		case errors.As(err, &invalidOpErr):
			refused++
		default:
			t.Fatalf("unexpected removal error: %s", err)
		}
	}
	require.Equal(t, 1, removed)
	require.Equal(t, 1, refused)

	count, err := f.membershipStor.CountActiveMembers(1)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	team, err := f.teams.GetTeam(1)
	require.NoError(t, err)
	require.Equal(t, 2, team.Size)
}

func TestRemoveMemberProtectsCreator(t *testing.T) {
	f := threeMemberFixture()

	// Plenty of members left, but the creator is never removable.
	var invalidOpErr *InvalidOperationError
	err := f.memberships.RemoveMember(1, 1, 2)
	require.ErrorAs(t, err, &invalidOpErr)
}

func TestRemoveMemberAuthorization(t *testing.T) {
	f := threeMemberFixture()

	err := f.memberships.RemoveMember(1, 2, 3)
	require.ErrorIs(t, err, ErrForbidden)

	err = f.memberships.RemoveMember(1, 2, 99)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRemoveMemberMissing(t *testing.T) {
	f := threeMemberFixture()

	err := f.memberships.RemoveMember(1, 42, 1)
	require.ErrorIs(t, err, ErrNotFound)

	err = f.memberships.RemoveMember(42, 1, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRole(t *testing.T) {
	f := threeMemberFixture()

	membership, err := f.memberships.UpdateRole(1, 3, 1, "Staff Engineer", model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "Staff Engineer", membership.Role)
	require.True(t, membership.Level.IsAdmin())
	require.False(t, membership.Level.IsLead())
}

func TestUpdateRoleLeadImpliesAdmin(t *testing.T) {
	f := threeMemberFixture()

	membership, err := f.memberships.UpdateRole(1, 3, 1, "Team Lead", model.RoleLead)
	require.NoError(t, err)
	require.True(t, membership.Level.IsLead())
	// Lead carries admin by construction; there's no way to represent a lead
	// that can't manage the team.
	require.True(t, membership.Level.IsAdmin())
	require.True(t, membership.Level.CanManage())
}

func TestUpdateRoleAuthorization(t *testing.T) {
	f := threeMemberFixture()

	_, err := f.memberships.UpdateRole(1, 2, 3, "Engineer", model.RoleMember)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRoleOnInactiveMembership(t *testing.T) {
	f := threeMemberFixture()

	err := f.memberships.RemoveMember(1, 3, 1)
	require.NoError(t, err)

	_, err = f.memberships.UpdateRole(1, 3, 1, "Engineer", model.RoleMember)
	require.ErrorIs(t, err, ErrNotFound)
}
