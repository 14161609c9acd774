package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/loteam"
	"github.com/pkg/errors"
)

type TeamController struct {
	teamService *loteam.TeamService
}

func NewTeamController(teamService *loteam.TeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

func (c *TeamController) CreateTeam(ctx echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Industry    string `json:"industry"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "team name is required")
	}

	actor := getUser(ctx)
	team, err := c.teamService.CreateTeam(req.Name, req.Description, req.Industry, actor.ID)
	if err != nil {
		return errors.Wrapf(err, "unable to create team %q", req.Name)
	}

	return ctx.JSON(http.StatusCreated, team)
}

func (c *TeamController) GetReadiness(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	readiness, err := c.teamService.Readiness(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, readiness)
}

func (c *TeamController) PostTeam(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	actor := getUser(ctx)
	team, err := c.teamService.Post(teamID, actor.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) UnpostTeam(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	actor := getUser(ctx)
	team, err := c.teamService.Unpost(teamID, actor.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, team)
}

func getUser(ctx echo.Context) model.User {
	user, _ := ctx.Get("User").(model.User)
	return user
}

func intParam(ctx echo.Context, name string) (int, error) {
	var val int
	if err := echo.PathParamsBinder(ctx).Int(name, &val).BindError(); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return val, nil
}
