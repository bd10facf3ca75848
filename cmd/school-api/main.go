package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title School Admin API
// @version 1.0.0
// @description Person registration, course catalogue and enrollment management.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var rootCmd = &cobra.Command{
	Use:           "school-api",
	Short:         "School administration API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
