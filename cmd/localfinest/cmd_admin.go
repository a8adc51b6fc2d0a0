package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
	"github.com/Fritte91/247LocalFinest/internal/core/service"
	mongodb "github.com/Fritte91/247LocalFinest/internal/infrastructure/db/mongo"
	"github.com/Fritte91/247LocalFinest/pkg/logger"
)

var adminFlags struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// localfinest create-admin: seed an administrator account. Public sign-up
// never creates admins.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		password := adminFlags.password
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		if adminFlags.email == "" || password == "" {
			return errors.New("--email and --password (or ADMIN_PASSWORD) are required")
		}

		client, db, err := connectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		users := mongodb.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("ensure user indexes")
		}

		auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth"))
		user, err := auth.Register(ctx, ports.RegisterInput{
			FirstName: adminFlags.firstName,
			LastName:  adminFlags.lastName,
			Email:     adminFlags.email,
			Password:  password,
			Role:      domain.RoleAdmin,
		})
		if errors.Is(err, domain.ErrUserExists) {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin user already exists")
			return nil
		}
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin user created: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "admin@247localfinest.com", "admin email")
	f.StringVar(&adminFlags.password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	f.StringVar(&adminFlags.firstName, "first-name", "Admin", "first name")
	f.StringVar(&adminFlags.lastName, "last-name", "User", "last name")
}
