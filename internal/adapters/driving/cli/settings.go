package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and check the settings used to read, write, reload and mirror maps.

Settings live in config.toml under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the settings for errors",
	RunE:  runSettingsValidate,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings to the config file",
	RunE:  runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsServiceOrErr() error {
	if cliServices == nil || cliServices.Settings == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := settingsServiceOrErr(); err != nil {
		return err
	}
	settings, err := cliServices.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	st := settings.Store

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Map]")
	cmd.Printf("  Origin name: %s\n", orNone(st.OriginName))
	cmd.Printf("  Use temp file: %t\n", st.UseTempFile)
	cmd.Printf("  Allow empty file name: %t\n", st.AllowEmptyFileName)
	cmd.Println()

	cmd.Println("[Info]")
	cmd.Printf("  Extra sections: %s\n", orNone(strings.Join(st.ExtraInfoNames, ", ")))
	for _, section := range slices.Sorted(maps.Keys(st.ChildArgs)) {
		cmd.Printf("  Child args of %s: %s\n", section, strings.Join(st.ChildArgs[section], ", "))
	}
	cmd.Println()

	cmd.Println("[Reload]")
	cmd.Printf("  Debounce: %s\n", st.Reload.Debounce)
	cmd.Printf("  Min interval: %s\n", st.Reload.MinInterval)
	cmd.Printf("  Cancel wait: %d x %s\n", st.Reload.CancelWaitAttempts, st.Reload.CancelWaitInterval)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	cmd.Println()

	cmd.Println("[Mirror]")
	printMirror(cmd, settings.Mirror)
	cmd.Println()

	cmd.Println("[Metrics]")
	cmd.Printf("  Listen: %s\n", orNone(settings.Metrics.Listen))
	return nil
}

func printMirror(cmd *cobra.Command, m domain.MirrorSettings) {
	if !m.IsConfigured() {
		cmd.Println("  Status: not configured")
		return
	}
	cmd.Printf("  Bucket: %s\n", m.Bucket)
	cmd.Printf("  Prefix: %s\n", orNone(m.Prefix))
	cmd.Printf("  Region: %s\n", orNone(m.Region))
	cmd.Printf("  Endpoint: %s\n", orNone(m.Endpoint))
	if m.HasStaticCredentials() {
		cmd.Printf("  Access key: %s\n", maskSecret(m.AccessKeyID))
		cmd.Printf("  Secret key: %s\n", maskSecret(m.SecretAccessKey))
	} else {
		cmd.Println("  Credentials: default AWS chain")
	}
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if err := settingsServiceOrErr(); err != nil {
		return err
	}
	if err := cliServices.Settings.Validate(); err != nil {
		return err
	}
	cmd.Println("Settings are valid")
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	if err := settingsServiceOrErr(); err != nil {
		return err
	}
	defaults := cliServices.Settings.GetDefaults()
	if err := cliServices.Settings.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Default settings written")
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// maskSecret shows only the ends of a credential.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
