package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/liftout/liftout/pkg/config"
	"github.com/liftout/liftout/pkg/lodb"
	"github.com/liftout/liftout/pkg/lodb/stor"
	"github.com/liftout/liftout/pkg/loteam"
	"github.com/liftout/liftout/pkg/loteam/notify"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loapid",
	Short: "Run the loapid team lifecycle API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		db := lodb.MustConnectToDB()
		c := config.MustLoadFromLiftoutDotenv()

		stors := stor.NewGormStors(db)

		var notifier notify.Notifier
		if notifyURL := c.GetKey("LO_NOTIFY_URL"); notifyURL != "" {
			notifier = notify.NewHTTPNotifier(notifyURL)
		} else {
			log.Warn("LO_NOTIFY_URL not set, invitation notifications disabled")
		}

		teamService := loteam.NewTeamService(stors.TeamStor, stors.MembershipStor)

		setupRoutes(e, RouteOpts{
			stors:             stors,
			teamService:       teamService,
			membershipService: loteam.NewMembershipService(stors.TeamStor, stors.MembershipStor, teamService.Locker()),
			invitationService: loteam.NewInvitationService(stors.TeamStor, stors.MembershipStor, stors.UserStor, notifier),
		})

		port := c.GetIntKeyWithDefault("LOAPID_PORT", 1370)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
