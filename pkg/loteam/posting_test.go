package loteam

import (
	"errors"
	"sync"
	"testing"

	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/stretchr/testify/require"
)

func TestPostTransitionsDraftToPosted(t *testing.T) {
	f := readyTeamFixture()

	team, err := f.teams.Post(1, 1)
	require.NoError(t, err)
	require.Equal(t, model.PostingPosted, team.PostingStatus)
	require.NotNil(t, team.PostedAt)
	require.Nil(t, team.UnpostedAt)
	require.Equal(t, "available", team.AvailabilityStatus)
}

func TestPostIsIdempotent(t *testing.T) {
	f := readyTeamFixture()

	first, err := f.teams.Post(1, 1)
	require.NoError(t, err)

	// A second post by another authorized user succeeds and changes nothing.
	second, err := f.teams.Post(1, 2)
	require.NoError(t, err)
	require.Equal(t, model.PostingPosted, second.PostingStatus)
	require.Equal(t, first.PostedAt, second.PostedAt)
}

func TestConcurrentPostsSingleTransition(t *testing.T) {
	f := readyTeamFixture()

	const posters = 8
	teams := make([]*model.Team, posters)
	errs := make([]error, posters)

	var wg sync.WaitGroup
	for i := 0; i < posters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			teams[i], errs[i] = f.teams.Post(1, 1)
		}(i)
	}
	wg.Wait()

	// Every caller succeeds, and all of them observe the one transition: the
	// loser of the race gets the idempotent no-op, not a second PostedAt.
	for i := 0; i < posters; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, model.PostingPosted, teams[i].PostingStatus)
		require.NotNil(t, teams[i].PostedAt)
		require.Equal(t, *teams[0].PostedAt, *teams[i].PostedAt)
	}
}

func TestPostRequiresManageAccess(t *testing.T) {
	f := readyTeamFixture()

	// Demote the second member so they're active but neither admin nor lead.
	_, err := f.membershipStor.UpdateRole(1, 2, "Engineer", model.RoleMember)
	require.NoError(t, err)

	_, err = f.teams.Post(1, 2)
	require.ErrorIs(t, err, ErrForbidden)

	// A user with no membership at all is also forbidden.
	_, err = f.teams.Post(1, 99)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestPostFailsWithFullRequirementList(t *testing.T) {
	lead := makeUser(1, "Ada", "Lovelace", "Engineering leader with a decade of platform work")
	team := model.Team{ID: 1, Name: "Solo", Description: "short", CreatorID: 1, PostingStatus: model.PostingDraft}
	f := newFixture(
		[]model.Team{team},
		[]model.TeamMembership{activeMembership(1, 1, lead, model.RoleLead)},
		[]model.User{*lead},
	)

	_, err := f.teams.Post(1, 1)

	var preconditionErr *PreconditionFailedError
	require.ErrorAs(t, err, &preconditionErr)
	require.Len(t, preconditionErr.Requirements, 5)

	var unmet []string
	for _, r := range preconditionErr.Unmet() {
		unmet = append(unmet, r.ID)
	}
	require.Equal(t, []string{"min_members", "team_description", "team_industry"}, unmet)

	// The team stayed in draft.
	current, err := f.teams.GetTeam(1)
	require.NoError(t, err)
	require.Equal(t, model.PostingDraft, current.PostingStatus)
}

func TestPostMissingTeam(t *testing.T) {
	f := readyTeamFixture()

	_, err := f.teams.Post(42, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnpostStampsUnpostedAt(t *testing.T) {
	f := readyTeamFixture()

	_, err := f.teams.Post(1, 1)
	require.NoError(t, err)

	team, err := f.teams.Unpost(1, 1)
	require.NoError(t, err)
	require.Equal(t, model.PostingDraft, team.PostingStatus)
	require.NotNil(t, team.UnpostedAt)

	// Unposting a draft team is a no-op success.
	again, err := f.teams.Unpost(1, 1)
	require.NoError(t, err)
	require.Equal(t, team.UnpostedAt, again.UnpostedAt)
}

func TestUnpostRequiresManageAccess(t *testing.T) {
	f := readyTeamFixture()

	_, err := f.teams.Post(1, 1)
	require.NoError(t, err)

	_, err = f.teams.Unpost(1, 99)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRepostAfterUnpost(t *testing.T) {
	f := readyTeamFixture()

	_, err := f.teams.Post(1, 1)
	require.NoError(t, err)

	_, err = f.teams.Unpost(1, 1)
	require.NoError(t, err)

	team, err := f.teams.Post(1, 1)
	require.NoError(t, err)
	require.Equal(t, model.PostingPosted, team.PostingStatus)
	require.Nil(t, team.UnpostedAt)
}

func TestReadinessThroughService(t *testing.T) {
	f := readyTeamFixture()

	readiness, err := f.teams.Readiness(1)
	require.NoError(t, err)
	require.True(t, readiness.CanPost)
	require.Equal(t, 100, readiness.ProgressPercent)

	_, err = f.teams.Readiness(42)
	require.True(t, errors.Is(err, ErrNotFound))
}
