package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/liftout/liftout/pkg/loapid/webapi"
	"github.com/liftout/liftout/pkg/loapid/webapi/apimiddleware"
	"github.com/liftout/liftout/pkg/lodb/stor"
	"github.com/liftout/liftout/pkg/loteam"
)

type RouteOpts struct {
	stors             *stor.Stors
	teamService       *loteam.TeamService
	membershipService *loteam.MembershipService
	invitationService *loteam.InvitationService
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	apikeyCache := apimiddleware.NewAPIKeyCache(opts.stors.UserStor)

	g := e.Group("/api")
	g.Use(apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
		Keyname:         "X-API-TOKEN",
		GetUserByAPIKey: apikeyCache.GetUserByAPIKey,
	}))

	teamController := webapi.NewTeamController(opts.teamService)
	g.POST("/teams", teamController.CreateTeam)
	g.GET("/teams/:id/readiness", teamController.GetReadiness)
	g.POST("/teams/:id/post", teamController.PostTeam)
	g.POST("/teams/:id/unpost", teamController.UnpostTeam)

	membershipController := webapi.NewMembershipController(opts.membershipService)
	g.GET("/teams/:id/members", membershipController.ListActiveMembers)
	g.PATCH("/teams/:id/members/:mid", membershipController.UpdateMembership)
	g.DELETE("/teams/:id/members/:mid", membershipController.RemoveMember)

	invitationController := webapi.NewInvitationController(opts.invitationService)
	g.POST("/teams/:id/invitations", invitationController.CreateInvitation)
	g.POST("/invitations/:mid/resend", invitationController.ResendInvitation)
	g.POST("/invitations/accept", invitationController.AcceptInvitation)
}
