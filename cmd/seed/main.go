package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/nexbuildhq/nexbuild-backend/internal/config"
	"github.com/nexbuildhq/nexbuild-backend/internal/db"
	"github.com/nexbuildhq/nexbuild-backend/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
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
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	components := buildCatalog()

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("components already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM components`).Error; err != nil {
			return fmt.Errorf("clear components: %w", err)
		}
		if err := tx.Create(&components).Error; err != nil {
			return fmt.Errorf("insert components: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d components", len(components))
	return nil
}

func buildCatalog() []model.Component {
	type entry struct {
		Name  string
		Brand string
		Price int64
	}
	catalog := []struct {
		Category model.ComponentCategory
		Entries  []entry
	}{
		{model.CategoryProcessor, []entry{
			{"Ryzen 5 7600", "AMD", 18500},
			{"Ryzen 7 7800X3D", "AMD", 36500},
			{"Core i5-14600K", "Intel", 27000},
			{"Core i7-14700K", "Intel", 38500},
		}},
		{model.CategoryGraphics, []entry{
			{"GeForce RTX 4060", "NVIDIA", 29500},
			{"GeForce RTX 4070 Super", "NVIDIA", 56500},
			{"Radeon RX 7700 XT", "AMD", 41000},
		}},
		{model.CategoryMemory, []entry{
			{"Vengeance 16GB DDR5-5600", "Corsair", 5200},
			{"Vengeance 32GB DDR5-6000", "Corsair", 9800},
			{"Fury Beast 32GB DDR5-5200", "Kingston", 8900},
		}},
		{model.CategoryStorage, []entry{
			{"980 Pro 1TB NVMe", "Samsung", 7800},
			{"SN770 1TB NVMe", "WD", 6400},
			{"990 Pro 2TB NVMe", "Samsung", 14500},
		}},
		{model.CategoryCooling, []entry{
			{"Hyper 212 Black", "Cooler Master", 2800},
			{"NH-D15", "Noctua", 8900},
			{"Kraken 240 AIO", "NZXT", 11200},
		}},
		{model.CategoryPower, []entry{
			{"RM650e 650W Gold", "Corsair", 6500},
			{"Focus GX-750 750W Gold", "Seasonic", 9200},
			{"RM850e 850W Gold", "Corsair", 10400},
		}},
		{model.CategoryMotherboard, []entry{
			{"B650 Tomahawk", "MSI", 14800},
			{"Z790 Gaming X", "Gigabyte", 19500},
			{"B760M DS3H", "Gigabyte", 10200},
		}},
		{model.CategoryCase, []entry{
			{"4000D Airflow", "Corsair", 6800},
			{"H5 Flow", "NZXT", 7500},
			{"Meshify 2 Compact", "Fractal Design", 9100},
		}},
		{model.CategoryExtraStorage, []entry{
			{"Barracuda 2TB HDD", "Seagate", 4100},
			{"Blue 4TB HDD", "WD", 6900},
			{"870 EVO 1TB SATA SSD", "Samsung", 6200},
		}},
	}

	var components []model.Component
	for _, group := range catalog {
		for _, e := range group.Entries {
			components = append(components, model.Component{
				Category: group.Category,
				Name:     e.Name,
				Brand:    e.Brand,
				Price:    e.Price,
				InStock:  true,
			})
		}
	}
	return components
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.Model(&model.Component{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count components: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}
