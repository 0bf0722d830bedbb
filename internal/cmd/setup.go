package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/matthieukhl/drinkstand/internal/database"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
	"github.com/spf13/cobra"
)

var (
	dropFirst bool
	seedData  bool
	seedDays  int
)

var setupCmd = &cobra.Command{
	Use:   "setup-db",
	Short: "Create the database schema and optionally sample data",
	Long: `Creates the drinkstand tables (orders, cup_movements, cup_closings,
cup_plans, start_cups, sales_reports) in the configured MySQL database.

With --seed it also records a carried-over entry per cup category and a
few days of completed orders spread across both shifts, which is enough
to try the summary, reconciliation and auto-close endpoints.`,
	RunE: setupDatabase,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
	setupCmd.Flags().BoolVar(&seedData, "seed", false, "Populate sample orders and cup entries")
	setupCmd.Flags().IntVar(&seedDays, "seed-days", 3, "Number of past days to seed")
}

func setupDatabase(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up database...")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !needsSchema(a.cfg.DB.Driver) {
		fmt.Printf("ℹ️  db.driver is %q, there is no schema to set up\n", a.cfg.DB.Driver)
		return nil
	}

	db, err := database.NewConnection(&a.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.store = db

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Drop tables if requested
	if dropFirst {
		fmt.Println("🗑️  Dropping existing tables...")
		if err := db.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(ctx); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	if seedData {
		fmt.Println("📊 Populating with sample data...")
		if err := populateSampleData(ctx, a, db); err != nil {
			return fmt.Errorf("failed to populate sample data: %w", err)
		}
	}

	fmt.Println("✅ Database setup complete!")
	return nil
}

// needsSchema reports whether driver keeps its tables in MySQL.
func needsSchema(driver string) bool {
	return driver == "mysql" || driver == ""
}

func populateSampleData(ctx context.Context, a *app, db *database.DB) error {
	fmt.Println("   🥤 Creating carried-over cup entries...")
	for _, category := range models.DrinkTypes {
		if _, err := db.AppendMovement(ctx, models.CupMovement{CarriedOver: true, Category: category}); err != nil {
			return err
		}
	}

	fmt.Printf("   🧾 Creating orders for the last %d days...\n", seedDays)
	return createOrders(ctx, a, db)
}

func createOrders(ctx context.Context, a *app, db *database.DB) error {
	b := a.cfg.Business
	loc := b.Location()
	pricer := orders.NewPricer(b.StandardPrice, b.PremiumPrice, b.PremiumItems)
	menu := pricer.Menu()
	methods := []string{"cash", "cash", "4-yen", "1-yen", "slot", "cash"}
	statuses := []models.OrderStatus{models.StatusCompleted, models.StatusCompleted, models.StatusCompleted, models.StatusCancelled}

	today := models.DayOf(time.Now(), loc)
	for d := seedDays; d >= 1; d-- {
		day := today.AddDays(-d)
		// 10:00 to 21:00, one order every 40 minutes
		for i := 0; i < 17; i++ {
			item := menu[(i+d)%len(menu)]
			o := models.Order{
				CreatedAt:     day.Start(loc).Add(10*time.Hour + time.Duration(i*40)*time.Minute),
				DrinkType:     item.DrinkType,
				Menu:          item.Name,
				Price:         item.Price,
				TableNumber:   1 + (i*7+d)%300,
				PaymentMethod: methods[i%len(methods)],
				ReceiptStatus: models.ReceiptReceived,
				Status:        statuses[i%len(statuses)],
			}
			if _, err := db.InsertOrder(ctx, o); err != nil {
				return err
			}
		}
	}
	return nil
}
