package cmd

import (
	"context"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

var seedMenu = []string{
	"Toast (Jam + Margarine)",
	"Toast (Peanut Butter)",
	"Cup of Tea",
	"Hot Chocolate",
	"Instant Noodles",
	"Fruit Bowl",
}

var seedNotes = []string{"", "", "no butter", "extra hot", "gluten free please"}

var seedStatuses = []models.Status{
	models.StatusPending,
	models.StatusAccepted,
	models.StatusBeingMade,
	models.StatusBeingDelivered,
	models.StatusCompleted,
}

// SeedOrders membuat n order demo lewat OrderService, dengan status acak.
func SeedOrders(ctx context.Context, orders *services.OrderService, fake faker.Faker, n int) ([]models.Order, error) {
	created := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		order, err := orders.Create(ctx, models.OrderInput{
			Food:     fake.RandomStringElement(seedMenu),
			Room:     fake.Numerify("##"),
			Name:     fake.Person().FirstName(),
			Comments: fake.RandomStringElement(seedNotes),
		})
		if err != nil {
			return created, err
		}

		target := seedStatuses[fake.IntBetween(0, len(seedStatuses)-1)]
		if target != models.StatusPending {
			if order, err = orders.UpdateStatus(ctx, order.ID, models.StatusUpdate{Status: target}); err != nil {
				return created, err
			}
		}
		created = append(created, order)
	}
	return created, nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo orders in the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		open, _ := cmd.Flags().GetBool("open-kitchen")

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if open {
			if _, _, err := a.orders.SetKitchenOpen(ctx, true); err != nil {
				return err
			}
		}

		created, err := SeedOrders(ctx, a.orders, faker.New(), count)
		if err != nil {
			return err
		}
		utils.InfoLogger.Infof("Seeded %d orders", len(created))
		return nil
	},
}

func init() {
	seedCmd.Flags().Int("count", 10, "number of orders to create")
	seedCmd.Flags().Bool("open-kitchen", true, "open the kitchen before seeding")
}
