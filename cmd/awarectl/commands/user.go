package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/services/auth"
)

// NewUserCmd creates the user command group
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserListCmd())

	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var username, password, displayName string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeDatabase(db)

			repos := database.NewRepositories(db)
			service := auth.NewService(repos.Users, zap.NewNop())

			user, err := service.Register(context.Background(), username, password, displayName)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("Created user %d (%s)\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeDatabase(db)

			repos := database.NewRepositories(db)

			users, err := repos.Users.List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if len(users) == 0 {
				fmt.Println("No users")
				return nil
			}

			for _, user := range users {
				lastSync := "never"
				if user.LastSyncDate != nil {
					lastSync = user.LastSyncDate.Format("2006-01-02 15:04")
				}
				fmt.Printf("%4d  %-24s  last sync: %s\n", user.ID, user.Username, lastSync)
			}
			return nil
		},
	}
}
