package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/nexbuildhq/nexbuild-backend/internal/config"
	"github.com/nexbuildhq/nexbuild-backend/internal/db"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("vendorstats failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	repo := repository.NewVendorStatsRepository(gdb)
	stats, err := repo.List(context.Background())
	if err != nil {
		return fmt.Errorf("list vendor stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("no vendor activity recorded yet")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header("Vendor UID", "Orders Won", "Orders Lost", "Win Rate")

	for _, vs := range stats {
		total := vs.OrdersWon + vs.OrdersLost
		rate := "-"
		if total > 0 {
			rate = fmt.Sprintf("%.0f%%", float64(vs.OrdersWon)/float64(total)*100)
		}
		if err := table.Append([]string{
			vs.VendorUID,
			fmt.Sprintf("%d", vs.OrdersWon),
			fmt.Sprintf("%d", vs.OrdersLost),
			rate,
		}); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return table.Render()
}
