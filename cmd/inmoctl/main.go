package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "inmoctl",
		Short:        "Operaciones de mantenimiento de la inmobiliaria",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		closeMonthCmd(),
		applyAdjustmentsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
