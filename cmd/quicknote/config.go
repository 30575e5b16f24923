// ABOUTME: Config command for inspecting and creating the config file.
// ABOUTME: Prints the effective settings after file, environment and flags.

package main

import (
	"fmt"

	"github.com/harper/quicknote/internal/config"
	"github.com/harper/quicknote/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show configuration",
	Long:        `Print the effective configuration and where it is read from.`,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("# %s", config.ConfigPath())
		if !config.ConfigExists() {
			fmt.Print(" (not created, showing defaults)")
		}
		fmt.Println()

		effective := *cfg
		effective.DataDir = cfg.ResolvedDataDir()
		data, err := yaml.Marshal(&effective)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the current settings",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if config.ConfigExists() && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigPath())
		}
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wrote %s", config.ConfigPath())))
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
