package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/docview/internal/docload"
	"github.com/marcus/docview/internal/output"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readSecret is replaced in tests.
var readSecret = func(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := readerLines(os.Stdin)()
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return line, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

var hashCmd = &cobra.Command{
	Use:   "hash [manifest.json]",
	Short: "Hash a document password",
	Long: `Read a password and print its bcrypt hash. With a manifest argument the
hash is written into the manifest instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHash,
}

func init() {
	hashCmd.Flags().Int("cost", 0, "bcrypt cost (default 10)")
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	pw, err := readSecret("Password: ")
	if err != nil {
		return err
	}
	if pw == "" {
		return errors.New("password cannot be empty")
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm, err := readSecret("Confirm: ")
		if err != nil {
			return err
		}
		if confirm != pw {
			return errPasswordMismatch
		}
	}

	cost, _ := cmd.Flags().GetInt("cost")
	hash, err := docload.HashPassword(pw, cost)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	}
	if err := docload.SetPasswordHash(args[0], hash); err != nil {
		return err
	}
	output.Success("Password set for %s", args[0])
	return nil
}
