package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/marcus/docview/internal/config"
	"github.com/marcus/docview/internal/i18n"
	"github.com/marcus/docview/internal/output"
)

var localeCmd = &cobra.Command{
	Use:   "locale [tag]",
	Short: "Show or set the UI language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getBaseDir()
		if len(args) == 0 {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.New(cfg.Locale).Tag())
			return nil
		}

		tag, err := language.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid locale %q: %w", args[0], err)
		}
		if !isSupported(tag) {
			output.Warning("%s is not translated, English will be used (available: %s)", tag, supportedList())
		}
		if err := config.SetLocale(dir, tag.String()); err != nil {
			return err
		}
		output.Success("Locale set to %s", tag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(localeCmd)
}

func isSupported(tag language.Tag) bool {
	base, _ := tag.Base()
	for _, t := range i18n.Supported() {
		if b, _ := t.Base(); b == base {
			return true
		}
	}
	return false
}

func supportedList() string {
	tags := i18n.Supported()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
