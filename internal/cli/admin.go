package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/internal/service"
)

var (
	adminEmail     string
	adminFirstName string
	adminLastName  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Creates an account with the admin role. The password is read from the
COURSECTL_ADMIN_PASSWORD environment variable so it never appears in shell history.`,
	Example: `  COURSECTL_ADMIN_PASSWORD='S3cret!pass' coursectl create-admin --email admin@example.com --first-name Admin --last-name User`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("COURSECTL_ADMIN_PASSWORD")
		if password == "" {
			return fmt.Errorf("COURSECTL_ADMIN_PASSWORD must be set")
		}

		pg, err := f.postgres(cmd.Context())
		if err != nil {
			return err
		}
		users := service.NewUserService(repository.NewUserRepository(pg.PoolHandle()), nil, f.logger, f.cfg.Auth.BcryptCost)
		user, err := users.Create(cmd.Context(), service.UserInput{
			FirstName: adminFirstName,
			LastName:  adminLastName,
			Email:     adminEmail,
			Password:  password,
			Role:      domain.RoleAdmin,
		})
		if err != nil {
			return err
		}

		f.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email address of the new administrator")
	createAdminCmd.Flags().StringVar(&adminFirstName, "first-name", "", "First name (letters and spaces, at least 4)")
	createAdminCmd.Flags().StringVar(&adminLastName, "last-name", "", "Last name (letters and spaces, at least 4)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("first-name")
	_ = createAdminCmd.MarkFlagRequired("last-name")
}
