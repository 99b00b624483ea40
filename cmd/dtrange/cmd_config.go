package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dtrange/internal/config"
	appLog "dtrange/internal/log"
)

func newConfigCmd(fv *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := config.Load(fv.configPath)
			if err != nil && !force {
				return err
			}
			cfg := config.DefaultConfig()
			if !force && existing != nil && *existing != *cfg {
				return fmt.Errorf("%s already holds a non-default configuration (use --force)", fv.configPath)
			}
			if err := config.Save(fv.configPath, cfg); err != nil {
				appLog.Error("failed to save config", err, "config_path", fv.configPath)
				return err
			}
			appLog.Info("config written", "config_path", fv.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fv)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
