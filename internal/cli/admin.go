package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jshaha/cognitive-load-annotation/internal/repository"
	"github.com/jshaha/cognitive-load-annotation/internal/utils"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Interactively create an admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		reader := bufio.NewReader(os.Stdin)

		username, err := prompt(reader, "Admin username: ")
		if err != nil {
			return err
		}
		email, err := prompt(reader, "Admin email: ")
		if err != nil {
			return err
		}
		if !utils.IsValidEmail(email) {
			return fmt.Errorf("%q is not a valid email address", email)
		}

		password, err := promptPassword("Admin password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		if !utils.IsComplexPassword(password) {
			return fmt.Errorf("password must be at least 8 characters and mix upper case, lower case, digits and symbols")
		}

		ctx := context.Background()
		taken, err := repository.UserExists(ctx, username, email)
		if err != nil {
			return fmt.Errorf("failed to check for existing user: %w", err)
		}
		if taken {
			return fmt.Errorf("a user with that username or email already exists")
		}

		if _, err := repository.CreateUser(ctx, username, email, password, true); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Printf("Admin user %q created successfully.\n", username)
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
