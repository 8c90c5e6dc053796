// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/momeni/flightagg/pkg/core/model"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	origin, destination string
	departure, ret      string
	passengers          int
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search all suppliers once and print the found flights",
	Long: `Search all enabled suppliers of the configuration file once,
exactly like the POST /flights API, and print the sorted flights as
a JSON array. Dates are formatted as YYYY-MM-DD and airports are given
by their three characters IATA codes.`,
	RunE: search,
	Args: cobra.NoArgs,
}

func search(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c, _, err := loadConfig()
	if err != nil {
		return err
	}
	origin, err := model.ParseIATACode(searchFlags.origin)
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	destination, err := model.ParseIATACode(searchFlags.destination)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	departure, err := model.ParseDate(searchFlags.departure)
	if err != nil {
		return fmt.Errorf("departure: %w", err)
	}
	ret, err := model.ParseDate(searchFlags.ret)
	if err != nil {
		return fmt.Errorf("return: %w", err)
	}
	uc, err := c.NewFlightsUseCase(ctx, nil)
	if err != nil {
		return fmt.Errorf("creating flights use case: %w", err)
	}
	flights, err := uc.Search(
		ctx, origin, destination, departure, ret, searchFlags.passengers,
	)
	if err != nil {
		return fmt.Errorf("searching flights: %w", err)
	}
	b, err := json.MarshalIndent(flights, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling flights: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.origin, "origin", "", "origin IATA code")
	f.StringVar(&searchFlags.destination, "destination", "", "destination IATA code")
	f.StringVar(&searchFlags.departure, "departure", "", "departure date")
	f.StringVar(&searchFlags.ret, "return", "", "return date")
	f.IntVar(&searchFlags.passengers, "passengers", 1, "number of passengers")
	for _, name := range []string{"origin", "destination", "departure", "return"} {
		_ = searchCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(searchCmd)
}
