package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/app"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/config"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/database"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)
	return cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea o actualiza las tablas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Migraciones aplicadas.")
			return nil
		},
	}
}

func closeMonthCmd() *cobra.Command {
	var groupID uint
	var month, year int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "close-month",
		Short: "Convierte los registros impagos del período en deudas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if dryRun {
				preview, err := a.Services.Close.Preview(ctx, groupID, month, year)
				if err != nil {
					return err
				}
				return printJSON(preview)
			}
			result, err := a.Services.Close.Close(ctx, groupID, month, year)
			if err != nil {
				return err
			}
			if err := printJSON(result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d registro(s) no se pudieron cerrar", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().UintVar(&groupID, "group", 0, "grupo a cerrar")
	cmd.Flags().IntVar(&month, "month", 0, "mes (1-12)")
	cmd.Flags().IntVar(&year, "year", 0, "año")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "solo mostrar la vista previa")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func applyAdjustmentsCmd() *cobra.Command {
	var groupID uint

	cmd := &cobra.Command{
		Use:   "apply-adjustments",
		Short: "Aplica el valor vigente de cada índice a los contratos que ajustan el mes próximo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Services.Adjustments.ApplyAll(cmd.Context(), groupID)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}

	cmd.Flags().UintVar(&groupID, "group", 0, "grupo a ajustar")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}
