package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fentz26/reviewer/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .reviewer/config.yaml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool(FlagGlobal, false, "Write the global config instead of the project one")
	configInitCmd.Flags().Bool(FlagForce, false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool(FlagGlobal)
	force, _ := cmd.Flags().GetBool(FlagForce)

	path := filepath.Join(config.ProjectConfigDir, config.ProjectConfigFile)
	if global {
		path = config.GlobalConfigPath()
		if path == "" {
			return fmt.Errorf("cannot locate the global config directory")
		}
	}

	if err := config.SaveConfig(path, config.Default(), force); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
