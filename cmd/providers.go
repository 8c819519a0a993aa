package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"streamit/internal/media"
	"streamit/internal/provider"
)

var (
	flagType string
	flagTOML bool
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List embed providers",
	Long: `List the embed providers, built-in ones merged with [[providers]]
entries from the config file. --toml prints the table in config file
syntax as a starting point for overrides.`,
	Args: cobra.NoArgs,
	RunE: providersRun,
}

func init() {
	providersCmd.Flags().StringVarP(&flagType, "type", "t", "", "Only providers supporting movie or tv")
	providersCmd.Flags().BoolVar(&flagTOML, "toml", false, "Print as config file [[providers]] entries")
}

func providersRun(cmd *cobra.Command, args []string) error {
	reg, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("building provider table: %w", err)
	}

	entries := reg.All()
	if flagType != "" {
		mt, err := media.ParseMediaType(flagType)
		if err != nil {
			return err
		}
		entries = reg.Supporting(mt)
	}

	switch {
	case flagJSON:
		return printJSON(entries)
	case flagTOML:
		return toml.NewEncoder(os.Stdout).Encode(struct {
			Providers []provider.Entry `toml:"providers"`
		}{entries})
	}

	for _, e := range entries {
		kinds := make([]string, len(e.Supports))
		for i, s := range e.Supports {
			kinds[i] = s.String()
		}
		marker := " "
		if e.ID == cfg.Provider {
			marker = "*"
		}
		fmt.Printf("%s %-12s %-16s %s\n", marker, e.ID, e.Name, strings.Join(kinds, ","))
	}
	return nil
}
