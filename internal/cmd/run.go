package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/matthieukhl/drinkstand/internal/server"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the drinkstand API server",
	Long: `Start the drinkstand API server which provides:
- order entry and status updates
- shift summaries, cash reconciliation and sales statistics
- cup stock ledger, start-of-shift counts and the daily auto-close`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Drinkstand Starting...")

	fmt.Println("📝 Loading configuration...")
	fmt.Println("🔌 Connecting to database...")
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("✅ Store ready (%s)\n", a.cfg.DB.Driver)

	fmt.Println("⚙️  Setting up server...")
	srv := server.NewServer(a.store, server.Services{
		Orders: a.orders,
		Sales:  a.sales,
		Cups:   a.cups,
	}, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🌐 Starting server on %s...\n", a.cfg.Server.Addr)
	if err := srv.Start(ctx, a.cfg.Server.Addr, a.cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Println("👋 Server stopped")
	return nil
}
