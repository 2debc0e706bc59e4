package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutbuddy/internal/measure"
	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
)

var (
	parseUnit  string
	parseList  bool
	configInit bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <phrase...>",
	Short: "Read a spoken or written measurement",
	Long: `Reads phrases such as "five feet six and a half inches", "2' 10 3/4\""
or "88 cm" and prints the length in inches and in the display unit.

With --list the input is a comma separated list and the lengths are
printed sorted ascending.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), config)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configInit {
			return fmt.Errorf("config %s already exists, use --force to overwrite", configPath)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := project.SaveAppConfig(configPath, model.DefaultAppConfig()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseUnit, "unit", "u", "", "Unit for bare numbers (default: config)")
	parseCmd.Flags().BoolVarP(&parseList, "list", "l", false, "Parse a comma separated list")

	configInitCmd.Flags().BoolVar(&configInit, "force", false, "Overwrite an existing config")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// parsedLength is one line of parse output.
type parsedLength struct {
	Raw       string  `json:"raw,omitempty"`
	Inches    float64 `json:"inches"`
	Formatted string  `json:"formatted"`
}

func runParse(cmd *cobra.Command, args []string) error {
	name := parseUnit
	if name == "" {
		name = config.DefaultUnit
	}
	unit, err := measure.ParseUnit(name)
	if err != nil {
		return err
	}

	phrase := strings.Join(args, " ")
	if parseList {
		var out []parsedLength
		for _, l := range measure.ParseList(phrase, unit) {
			out = append(out, parsedLength{Inches: l, Formatted: measure.Format(l, unit)})
		}
		if len(out) == 0 {
			return fmt.Errorf("no measurements recognized in %q", phrase)
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	m, ok := measure.Parse(phrase, unit)
	if !ok {
		return fmt.Errorf("could not read %q as a length", phrase)
	}
	return writeJSON(cmd.OutOrStdout(), parsedLength{
		Raw:       m.Raw,
		Inches:    m.TotalInches,
		Formatted: measure.Format(m.TotalInches, unit),
	})
}
