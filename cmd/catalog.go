package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spigell/interview-coach/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List professions and positions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")
		return printCatalog(cmd, asYAML)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().Bool("yaml", false, "print the catalog as yaml")
}

func printCatalog(cmd *cobra.Command, asYAML bool) error {
	professions := catalog.List()

	if !asYAML {
		renderCatalog(cmd.OutOrStdout(), professions)
		return nil
	}

	out, err := yaml.Marshal(professions)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
