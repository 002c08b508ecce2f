package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/hive/config"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Print the merged configuration",
	Long:  `Merge a config file over the embedded defaults, validate it and print the result as YAML.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  printConfig,
}

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "Write the merged config to a file instead of stdout")
}

func printConfig(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if configOut != "" {
		if err := cfg.WriteYAML(configOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", configOut)
		return nil
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
