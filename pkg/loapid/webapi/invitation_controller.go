package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/loteam"
)

type InvitationController struct {
	invitationService *loteam.InvitationService
}

func NewInvitationController(invitationService *loteam.InvitationService) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

func (c *InvitationController) CreateInvitation(ctx echo.Context) error {
	var req struct {
		Email   string `json:"email"`
		Role    string `json:"role"`
		IsLead  bool   `json:"is_lead"`
		IsAdmin bool   `json:"is_admin"`
	}

	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invitee email is required")
	}

	level := model.RoleMember
	switch {
	case req.IsLead:
		level = model.RoleLead
	case req.IsAdmin:
		level = model.RoleAdmin
	}

	actor := getUser(ctx)
	membership, err := c.invitationService.Invite(teamID, actor.ID, req.Email, req.Role, level)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusCreated, membership)
}

func (c *InvitationController) ResendInvitation(ctx echo.Context) error {
	membershipID, err := intParam(ctx, "mid")
	if err != nil {
		return err
	}

	actor := getUser(ctx)
	membership, err := c.invitationService.Resend(membershipID, actor.ID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"expires_at": membership.InvitationExpiresAt,
	})
}

func (c *InvitationController) AcceptInvitation(ctx echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invitation token is required")
	}

	var userID *int
	if actor := getUser(ctx); actor.ID != 0 {
		userID = &actor.ID
	}

	membership, err := c.invitationService.Accept(req.Token, userID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, membership)
}
