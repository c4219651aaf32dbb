package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openvoiceos/ovos-config/internal/version"
	"github.com/openvoiceos/ovos-config/pkg/config"
	"github.com/openvoiceos/ovos-config/pkg/locations"
	"github.com/openvoiceos/ovos-config/pkg/logging"
)

var verbosity int

// NewRootCmd builds the ovos-config command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ovos-config",
		Short: "Inspect layered voice-assistant configuration",
		Long: `ovos-config resolves the platform's layered configuration files
(default, distribution, system, web cache, user) via the XDG Base
Directory specification and prints the paths or the merged result.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.Commit, version.Date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0,
		"verbosity level (0=warn, 1=info, 2=debug, 3=trace)")

	rootCmd.AddCommand(newLocationsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newGetCmd())

	return rootCmd
}

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Print the config file precedence chain",
		Long: `Prints every candidate configuration path in load order. Later
entries override earlier ones when merged. The last line is the user
config save target.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range locations.Resolve().All() {
				cmd.Println(path)
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := loadMerged()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(merged.All(), "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one value from the merged configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := loadMerged()
			if err != nil {
				return err
			}
			if !merged.Has(args[0]) {
				return fmt.Errorf("key %q not found", args[0])
			}
			out, err := json.Marshal(merged.Get(args[0]))
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}

// loadMerged folds every layer of the precedence chain into one
// in-memory dict, later layers overwriting earlier ones.
func loadMerged() (*config.LocalConf, error) {
	merged, err := config.New("")
	if err != nil {
		return nil, err
	}
	for _, path := range locations.Resolve().All() {
		if err := merged.LoadLocal(path); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
