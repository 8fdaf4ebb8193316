package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/food-order-app/client"
	"github.com/yeremiapane/food-order-app/utils"
)

// logRenderer menampilkan state view ke log, dipakai oleh command watch.
type logRenderer struct{}

func (logRenderer) Render(state client.State) {
	entry := utils.InfoLogger.WithFields(logrus.Fields{"view": state.View, "kitchen_open": state.KitchenOpen})

	switch state.View {
	case client.ViewTracking:
		switch {
		case state.Deleted:
			entry.Infof("Order #%s was deleted", state.OrderID)
		case state.Tracked == nil:
			entry.Infof("Order #%s not found", state.OrderID)
		default:
			entry.Infof("Order #%s: %s (%s)", state.Tracked.ID, state.Tracked.Status, state.Tracked.Food)
		}
	case client.ViewManager:
		lines := make([]string, 0, len(state.Active))
		for _, o := range state.Active {
			lines = append(lines, fmt.Sprintf("#%s %s [%s] room %s", o.ID, o.Food, o.Status, o.Room))
		}
		entry.Infof("%d active, %d recent: %s", len(state.Active), len(state.Recent), strings.Join(lines, "; "))
	default:
		entry.Infof("%d recent orders", len(state.Recent))
	}
}

func (logRenderer) Notify(notice client.Notice) {
	if notice.Level == client.NoticeError {
		utils.ErrorLogger.Error(notice.Message)
		return
	}
	utils.InfoLogger.WithField("level", notice.Level).Info(notice.Message)
}

var watchCmd = &cobra.Command{
	Use:   "watch [page-url]",
	Short: "Follow a page (order, manager or tracking) against a running server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, orderID, err := client.DetermineView(args[0])
		if err != nil {
			return err
		}

		server, _ := cmd.Flags().GetString("server")
		mode, _ := cmd.Flags().GetString("mode")
		secret, _ := cmd.Flags().GetString("secret")

		api := client.NewClient(server)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if view == client.ViewManager && secret != "" {
			expiresAt, err := api.Login(ctx, secret)
			if err != nil {
				return fmt.Errorf("manager login failed: %w", err)
			}
			utils.InfoLogger.Infof("Manager session valid until %s", expiresAt.Format("15:04:05"))
		}

		s := client.NewSyncer(api, logRenderer{}, view, orderID, client.Mode(mode))
		utils.InfoLogger.Infof("Watching %s view (%s mode)", view, mode)
		if err := s.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().String("server", "http://localhost:8080", "base URL of the order API")
	watchCmd.Flags().String("mode", string(client.ModePush), "push (event stream) or poll")
	watchCmd.Flags().String("secret", os.Getenv("MANAGER_SECRET"), "manager secret for the dashboard view")
}
