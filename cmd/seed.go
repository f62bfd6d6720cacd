// Package cmd provides maintenance CLI commands for the catalog.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"autocatalog/bootstrap"
	"autocatalog/core"
	"autocatalog/service"
)

// NewSeedCmd creates the seed command, which loads a small sample
// catalog into the configured database. Seeding expects an empty
// catalog; a re-run fails on the first duplicate name.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a sample vehicle catalog",
		Long:  "Inserts a small set of brands, categories, engines, models, and cars into the configured database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sugar, err := bootstrap.InitLogger()
			if err != nil {
				return err
			}

			cfg, err := bootstrap.InitConfig(sugar)
			if err != nil {
				return err
			}

			sqlite, err := bootstrap.InitSQLite(cfg, sugar)
			if err != nil {
				return err
			}
			defer sqlite.Close()

			storages := bootstrap.InitStorages(sqlite, sugar)
			services := bootstrap.InitServices(storages, sugar)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := seedCatalog(ctx, services); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}

			sugar.Info("Sample catalog loaded")
			return nil
		},
	}
}

func seedCatalog(ctx context.Context, services *bootstrap.Services) error {
	audi, err := services.Brands.Create(ctx, "Audi")
	if err != nil {
		return err
	}
	toyota, err := services.Brands.Create(ctx, "Toyota")
	if err != nil {
		return err
	}

	sedan, err := services.Categories.Create(ctx, "Sedan")
	if err != nil {
		return err
	}
	suv, err := services.Categories.Create(ctx, "SUV")
	if err != nil {
		return err
	}

	tfsi, err := services.Engines.Create(ctx, "2.0 TFSI", 2.0, core.EnginePetrol)
	if err != nil {
		return err
	}
	hybrid, err := services.Engines.Create(ctx, "2.5 Dynamic Force", 2.5, core.EnginePetrol)
	if err != nil {
		return err
	}

	a4, err := services.Models.Create(ctx, service.ModelInput{
		Name:               "A4",
		Generation:         "B9",
		StartManufacturing: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		EndManufacturing:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		BrandID:            audi.ID,
	})
	if err != nil {
		return err
	}
	rav4, err := services.Models.Create(ctx, service.ModelInput{
		Name:               "RAV4",
		Generation:         "XA50",
		StartManufacturing: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		EndManufacturing:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		BrandID:            toyota.ID,
	})
	if err != nil {
		return err
	}

	cars := []service.CarInput{
		{
			Color:             "black",
			SerialNumber:      "WAUZZZF40LA000001",
			ManufacturingDate: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
			Drive:             core.DriveFront,
			ModelID:           a4.ID,
			EngineID:          tfsi.ID,
			CategoryID:        sedan.ID,
		},
		{
			Color:             "white",
			SerialNumber:      "JTMB33FV20D000002",
			ManufacturingDate: time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC),
			Drive:             core.DriveAll,
			ModelID:           rav4.ID,
			EngineID:          hybrid.ID,
			CategoryID:        suv.ID,
		},
	}
	for _, input := range cars {
		if _, err := services.Cars.Create(ctx, input); err != nil {
			return err
		}
	}

	return nil
}
