package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/hotfix/config"
)

// newConfigCmd creates the config command with subcommands.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and manage configuration",
		Long: `View and manage hotfix configuration.

Configuration is loaded from multiple sources with this priority:
  1. Command-line flags
  2. Environment variables (HOTFIX_*)
  3. Repository: .hotfix.yaml in the git root
  4. User: ~/.config/hotfix/config.yaml
  5. Defaults: Built-in values

Tokens and webhook secrets are only read from the user file or the
environment, never from the repository file.

Examples:
  hotfix config                          # Show every value and its source
  hotfix config get trunk
  hotfix config set trunk master         # Set in .hotfix.yaml
  hotfix config set --global github_token ghp_xxx
  hotfix config unset --global merge_delay`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved := config.NewHotfixResolver(a.workDir, a.stderr).Resolve(nil)
			printResolved(cmd.OutOrStdout(), resolved)
			return nil
		},
	}

	cmd.AddCommand(newConfigGetCmd(a))
	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigUnsetCmd(a))
	return cmd
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd(a *app) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isKnownKey(key) {
				return fmt.Errorf("unknown config key: %s\n\nValid keys: %s", key, strings.Join(config.Keys(), ", "))
			}

			resolved := config.NewHotfixResolver(a.workDir, a.stderr).Resolve(nil)
			out := cmd.OutOrStdout()
			if showSource {
				fmt.Fprintf(out, "%s (%s)\n", displayValue(key, resolved.Get(key)), resolved.Source(key))
				return nil
			}
			fmt.Fprintln(out, resolved.Get(key))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "show where the value came from")
	return cmd
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd(a *app) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a configuration value.

By default the value is written to .hotfix.yaml in the repository root.
Use --global to write ~/.config/hotfix/config.yaml instead; secrets such as
github_token can only be set globally.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.NewHotfixStore(config.NewHotfixResolver(a.workDir, a.stderr))
			path, err := store.Set(global, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], displayValue(args[0], args[1]), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write the user config file")
	return cmd
}

// newConfigUnsetCmd creates the 'config unset' subcommand.
func newConfigUnsetCmd(a *app) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isKnownKey(args[0]) {
				return fmt.Errorf("unknown config key: %s", args[0])
			}
			store := config.NewHotfixStore(config.NewHotfixResolver(a.workDir, a.stderr))
			if err := store.Unset(global, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "edit the user config file")
	return cmd
}

func printResolved(out io.Writer, resolved *config.Resolved) {
	for _, key := range resolved.Keys() {
		fmt.Fprintf(out, "%-14s %-30s (%s)\n", key, displayValue(key, resolved.Get(key)), resolved.Source(key))
	}
}

// displayValue masks secrets, keeping the last four characters.
func displayValue(key, value string) string {
	if value == "" {
		return `""`
	}
	for _, secret := range config.SecretKeys() {
		if key != secret {
			continue
		}
		if len(value) <= 4 {
			return "****"
		}
		return "****" + value[len(value)-4:]
	}
	return value
}

func isKnownKey(key string) bool {
	for _, k := range config.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
