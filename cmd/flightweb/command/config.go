// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/flightagg/pkg/adapter/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration settings",
	Long: `Load and validate the configuration file and print it as YAML,
including the default values of the missing settings and the logging
overrides of the LOG_LEVEL and LOG_FORMAT environment variables.`,
	RunE: printConfig,
	Args: cobra.NoArgs,
}

func printConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
}
