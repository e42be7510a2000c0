// Package token issues access tokens for existing users. There is no login
// endpoint; operators hand tokens out with this command.
package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/auth"
	"fastighet/internal/infrastructure/config"
	"fastighet/internal/infrastructure/database"
	"fastighet/internal/infrastructure/repository"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/logger"
)

var (
	env    string
	userID uint
	email  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		Long:  `Sign a bearer token for the user identified by --user-id or --email.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().UintVar(&userID, "user-id", 0, "ID of the user")
	cmd.Flags().StringVar(&email, "email", "", "E-mail address of the user")
	cmd.MarkFlagsMutuallyExclusive("user-id", "email")
	cmd.MarkFlagsOneRequired("user-id", "email")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	users := repository.NewUserRepository(database.Get(), logger.NewLogger())
	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	u, err := lookupUser(ctx, users, userID, email)
	if err != nil {
		return err
	}

	signed, expiresIn, err := issue(jwtSvc, u)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "user %d (%s, %s), expires in %ds\n", u.ID(), u.Email(), u.Role(), expiresIn)
	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}

type userFinder interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type tokenIssuer interface {
	Generate(userID uint, role authorization.UserRole) (string, int64, error)
}

func lookupUser(ctx context.Context, users userFinder, id uint, email string) (*user.User, error) {
	email = strings.TrimSpace(email)
	switch {
	case id != 0:
		return users.GetByID(ctx, id)
	case email != "":
		return users.GetByEmail(ctx, email)
	default:
		return nil, fmt.Errorf("either --user-id or --email is required")
	}
}

func issue(issuer tokenIssuer, u *user.User) (string, int64, error) {
	signed, expiresIn, err := issuer.Generate(u.ID(), u.Role())
	if err != nil {
		return "", 0, fmt.Errorf("failed to issue token: %w", err)
	}
	return signed, expiresIn, nil
}
