package webapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/lodb/stor"
	"github.com/liftout/liftout/pkg/loteam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEchoContext creates a test Echo context carrying the acting user, as
// the api key middleware would.
func setupEchoContext(t *testing.T, method, target string, body []byte, actor model.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("User", actor)

	return c, rec
}

func newTeamService(team model.Team, memberships []model.TeamMembership, users []model.User) *loteam.TeamService {
	membershipStor := stor.NewInMemoryMembershipStor(memberships)
	teamStor := stor.NewInMemoryTeamStor([]model.Team{team}, membershipStor)
	membershipStor.UseTeamStor(teamStor).UseUserStor(stor.NewInMemoryUserStor(users))

	return loteam.NewTeamService(teamStor, membershipStor)
}

func readyTeam() (model.Team, []model.TeamMembership, []model.User) {
	lead := model.User{ID: 1, FirstName: "Ada", LastName: "Lovelace", Bio: "Engineering leader with platform experience"}
	second := model.User{ID: 2, FirstName: "Grace", LastName: "Hopper", Bio: "Compiler and systems engineer"}

	team := model.Team{
		ID:            1,
		Name:          "Platform Crew",
		Description:   "A platform team that ships infrastructure together",
		Industry:      "Fintech",
		Size:          2,
		PostingStatus: model.PostingDraft,
		CreatorID:     1,
	}

	leadID, secondID := 1, 2
	memberships := []model.TeamMembership{
		{ID: 1, TeamID: 1, UserID: &leadID, Level: model.RoleLead, Status: model.MembershipActive},
		{ID: 2, TeamID: 1, UserID: &secondID, Level: model.RoleMember, Status: model.MembershipActive},
	}

	return team, memberships, []model.User{lead, second}
}

func TestGetReadiness(t *testing.T) {
	team, memberships, users := readyTeam()
	controller := NewTeamController(newTeamService(team, memberships, users))

	ctx, rec := setupEchoContext(t, http.MethodGet, "/api/teams/1/readiness", nil, users[0])
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	require.NoError(t, controller.GetReadiness(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var readiness loteam.Readiness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &readiness))
	assert.True(t, readiness.CanPost)
	assert.Len(t, readiness.Requirements, 5)
}

func TestPostTeamEndpoint(t *testing.T) {
	team, memberships, users := readyTeam()
	controller := NewTeamController(newTeamService(team, memberships, users))

	ctx, rec := setupEchoContext(t, http.MethodPost, "/api/teams/1/post", nil, users[0])
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	require.NoError(t, controller.PostTeam(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var posted model.Team
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posted))
	assert.Equal(t, model.PostingPosted, posted.PostingStatus)
	assert.NotNil(t, posted.PostedAt)
}

func TestPostTeamUnmetRequirements(t *testing.T) {
	team, memberships, users := readyTeam()
	team.Description = "short"
	controller := NewTeamController(newTeamService(team, memberships, users))

	ctx, _ := setupEchoContext(t, http.MethodPost, "/api/teams/1/post", nil, users[0])
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	err := controller.PostTeam(ctx)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)

	payload, ok := httpErr.Message.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "unmet_requirements")
}

func TestPostTeamForbidden(t *testing.T) {
	team, memberships, users := readyTeam()
	controller := NewTeamController(newTeamService(team, memberships, users))

	ctx, _ := setupEchoContext(t, http.MethodPost, "/api/teams/1/post", nil, users[1])
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	err := controller.PostTeam(ctx)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
