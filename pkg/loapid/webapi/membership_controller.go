package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/lodb/model"
	"github.com/liftout/liftout/pkg/loteam"
)

type MembershipController struct {
	membershipService *loteam.MembershipService
}

func NewMembershipController(membershipService *loteam.MembershipService) *MembershipController {
	return &MembershipController{membershipService: membershipService}
}

func (c *MembershipController) ListActiveMembers(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	members, err := c.membershipService.ActiveMembers(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, members)
}

func (c *MembershipController) UpdateMembership(ctx echo.Context) error {
	var req struct {
		Role    *string `json:"role"`
		IsLead  *bool   `json:"is_lead"`
		IsAdmin *bool   `json:"is_admin"`
	}

	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	membershipID, err := intParam(ctx, "mid")
	if err != nil {
		return err
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	actor := getUser(ctx)

	current, err := c.membershipService.ActiveMembers(teamID)
	if err != nil {
		return toHTTPError(err)
	}

	role, level, found := "", model.RoleMember, false
	for _, m := range current {
		if m.ID == membershipID {
			role, level, found = m.Role, m.Level, true
			break
		}
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "no such membership")
	}

	if req.Role != nil {
		role = *req.Role
	}
	level = resolveLevel(level, req.IsLead, req.IsAdmin)

	membership, err := c.membershipService.UpdateRole(teamID, membershipID, actor.ID, role, level)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(http.StatusOK, membership)
}

func (c *MembershipController) RemoveMember(ctx echo.Context) error {
	teamID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	membershipID, err := intParam(ctx, "mid")
	if err != nil {
		return err
	}

	actor := getUser(ctx)
	if err := c.membershipService.RemoveMember(teamID, membershipID, actor.ID); err != nil {
		return toHTTPError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// resolveLevel maps the wire-level is_lead/is_admin flags onto the single
// RoleLevel value. A lead's admin flag is implied and can't be turned off on
// its own: is_admin=false leaves a lead untouched unless is_lead=false in the
// same request drops lead first. Turning lead off demotes to admin.
func resolveLevel(current model.RoleLevel, isLead, isAdmin *bool) model.RoleLevel {
	level := current

	if isLead != nil {
		if *isLead {
			level = model.RoleLead
		} else if level == model.RoleLead {
			level = model.RoleAdmin
		}
	}

	if isAdmin != nil && level != model.RoleLead {
		if *isAdmin {
			level = model.RoleAdmin
		} else {
			level = model.RoleMember
		}
	}

	return level
}
