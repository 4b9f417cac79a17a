package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/credentials"
	"beszeltrmnl/internal/ui"
)

// NewAuthCmd creates the auth command with all subcommands
func NewAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored PocketBase password",
		Long: `Keep the PocketBase password in the OS keychain instead of .env.

A password set in POCKETBASE_PASSWORD always takes precedence.

Commands:
  login    Save the password to the keychain
  logout   Remove it
  status   Show whether one is stored`,
	}

	authCmd.AddCommand(newLoginCmd())
	authCmd.AddCommand(newLogoutCmd())
	authCmd.AddCommand(newAuthStatusCmd())

	return authCmd
}

func newLoginCmd() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the PocketBase password to the keychain",
		Long: `Save the PocketBase password to the keychain.

Examples:
  beszeltrmnl auth login
  echo "$PB_PASSWORD" | beszeltrmnl auth login --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				password string
				err      error
			)
			if fromStdin || !term.IsTerminal(int(os.Stdin.Fd())) {
				password, err = readLine(cmd.InOrStdin())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "Enter PocketBase password: ")
				var raw []byte
				raw, err = term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				password = string(raw)
			}
			if err != nil {
				return err
			}
			return savePassword(cmd.OutOrStdout(), secretStore(), password)
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored PocketBase password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deletePassword(cmd.OutOrStdout(), secretStore())
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a PocketBase password is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return passwordStatus(cmd.OutOrStdout(), secretStore())
		},
	}
}

func savePassword(w io.Writer, store credentials.Store, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := store.SetSecret(constants.KEYRING_PASSWORD_KEY, password); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	fmt.Fprintln(w, ui.RenderStatus("success", "PocketBase password saved to keychain"))
	return nil
}

func deletePassword(w io.Writer, store credentials.Store) error {
	err := store.DeleteSecret(constants.KEYRING_PASSWORD_KEY)
	switch {
	case errors.Is(err, credentials.ErrSecretNotFound):
		fmt.Fprintln(w, ui.RenderStatus("info", "No PocketBase password stored"))
		return nil
	case err != nil:
		return fmt.Errorf("failed to remove password: %w", err)
	}
	fmt.Fprintln(w, ui.RenderStatus("success", "PocketBase password removed from keychain"))
	return nil
}

func passwordStatus(w io.Writer, store credentials.Store) error {
	_, err := store.GetSecret(constants.KEYRING_PASSWORD_KEY)
	switch {
	case errors.Is(err, credentials.ErrSecretNotFound):
		fmt.Fprintln(w, ui.RenderStatus("warning", "No PocketBase password stored"))
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintln(w, ui.RenderStatus("success", "PocketBase password stored in keychain"))
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
