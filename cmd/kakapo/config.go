package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kakapo-ui/kakapo/internal/config"
	"github.com/kakapo-ui/kakapo/internal/errors"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kakapo configuration",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var (
		dir    string
		asYAML bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with the default values.

Examples:
  kakapo config init
  kakapo config init --yaml
  kakapo config init --dir ./app --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := config.ConfigFileName
			if asYAML {
				name = config.YAMLConfigFileName
			}
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("K040").
					WithDetail(path + " already exists").
					WithSuggestion("Use --force to overwrite it")
			}

			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the config file to")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Write kakapo.yaml instead of kakapo.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func configShowCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}

			data, err := cfg.Marshal(!asJSON)
			if err != nil {
				return err
			}
			if cfg.Path() == "" {
				warn("No config file found, showing defaults")
			} else {
				info("Loaded from %s", cfg.Path())
			}
			fmt.Println()
			fmt.Print(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing the config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML")

	return cmd
}

// loadConfig loads and validates the configuration in dir.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
