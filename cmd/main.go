/*
Copyright 2025 Carelane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carelane/labops"
	"github.com/carelane/labops/config"
	"github.com/carelane/labops/database"
	"github.com/carelane/labops/internal/notification"
)

// Labops represents the CLI application, encapsulating the root Cobra command.
type Labops struct {
	cmd *cobra.Command
}

// labopsInstance holds the running engine and its configuration, shared by
// every subcommand.
type labopsInstance struct {
	labops *labops.Labops
	cnf    *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the engine before any
// subcommand executes.
func preRun(app *labopsInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("labops.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newLabops, err := setupLabops(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.labops = newLabops
		app.cnf = cnf

		return nil
	}
}

// setupLabops connects to the store and builds the engine.
func setupLabops(cfg *config.Configuration) (*labops.Labops, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newLabops, err := labops.NewLabops(db)
	if err != nil {
		return nil, fmt.Errorf("error creating labops: %v", err)
	}
	return newLabops, nil
}

// NewCLI creates the command-line interface for the labops application.
func NewCLI() *Labops {
	var configFile string
	b := &labopsInstance{}

	var rootCmd = &cobra.Command{
		Use:   "labops",
		Short: "lab service-request lifecycle and payout engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./labops.json", "Configuration file for labops")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))

	return &Labops{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Labops) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
