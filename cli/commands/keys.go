package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/hfgo/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage access tokens and provider keys",
		Long: `Manage the Hugging Face access token and provider API keys.

Keys are stored encrypted. Store the Hugging Face token under "hf"; store a
provider's own key under any name and reference it with api_key_ref in the
config to call that provider directly.`,
	}
	cmd.AddCommand(a.newKeysSetCommand())
	cmd.AddCommand(a.newKeysGetCommand())
	cmd.AddCommand(a.newKeysListCommand())
	cmd.AddCommand(a.newKeysDeleteCommand())
	return cmd
}

func (a *App) newKeysSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [name]",
		Short: "Store a key (default name: hf)",
		Long:  `Store a key. The value is prompted without echo.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := keyName(args)
			fmt.Fprintf(a.stdout, "Enter value for %s: ", name)

			value, err := a.readSecret()
			if err != nil {
				return fmt.Errorf("failed to read key: %w", err)
			}
			if value == "" {
				return exitWithCode(ExitValidation, errors.New("key cannot be empty"))
			}

			ks, err := a.newKeystore()
			if err != nil {
				return fmt.Errorf("failed to open keystore: %w", err)
			}
			if err := ks.Set(name, value); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}

			fmt.Fprintf(a.stdout, "Key %s stored successfully.\n", name)
			return nil
		},
	}
}

func (a *App) newKeysGetCommand() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Show a stored key (masked unless --reveal)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := keyName(args)
			ks, err := a.newKeystore()
			if err != nil {
				return fmt.Errorf("failed to open keystore: %w", err)
			}
			value, err := ks.Get(name)
			if err != nil {
				if isNotFound(err) {
					return exitWithCode(ExitValidation, fmt.Errorf("no key stored for %s", name))
				}
				return fmt.Errorf("failed to read key: %w", err)
			}
			if !reveal {
				value = maskKey(value)
			}
			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the full value")
	return cmd
}

func (a *App) newKeysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Long:  `List stored keys. Only names are shown, never values.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.newKeystore()
			if err != nil {
				return fmt.Errorf("failed to open keystore: %w", err)
			}
			names, err := ks.List()
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}

			if a.jsonOutput {
				if names == nil {
					names = []string{}
				}
				return a.writeJSON(names)
			}
			if len(names) == 0 {
				fmt.Fprintln(a.stdout, "No keys stored.")
				return nil
			}
			fmt.Fprintln(a.stdout, "Stored keys:")
			for _, name := range names {
				fmt.Fprintf(a.stdout, "  - %s\n", name)
			}
			return nil
		},
	}
}

func (a *App) newKeysDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.newKeystore()
			if err != nil {
				return fmt.Errorf("failed to open keystore: %w", err)
			}
			if err := ks.Delete(args[0]); err != nil {
				if isNotFound(err) {
					return exitWithCode(ExitValidation, fmt.Errorf("no key stored for %s", args[0]))
				}
				return fmt.Errorf("failed to delete key: %w", err)
			}
			fmt.Fprintf(a.stdout, "Key %s deleted.\n", args[0])
			return nil
		},
	}
}

func keyName(args []string) string {
	if len(args) == 0 {
		return keystore.HFTokenName
	}
	return args[0]
}

// readSecret reads a line from stdin, without echo when stdin is a terminal.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// maskKey keeps the prefix and the last four characters of a key.
func maskKey(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:3] + strings.Repeat("*", len(v)-7) + v[len(v)-4:]
}
