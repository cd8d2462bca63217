package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/communityhub/core/internal/adapters/repository/file"
	"github.com/communityhub/core/internal/adapters/repository/postgres"
	"github.com/communityhub/core/internal/domain/entities"
	"github.com/communityhub/core/internal/infrastructure/config"
	"github.com/communityhub/core/internal/infrastructure/database"
	"github.com/communityhub/core/internal/infrastructure/logger"
	"github.com/communityhub/core/internal/infrastructure/server"
	"github.com/communityhub/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the CommunityHub API server",
		Long:  "Start the CommunityHub API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands.
// Migrations apply to the postgres driver only; the file driver creates
// its collections on demand.
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version); postgres driver only",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewBackupCommand creates the backup command for the file driver.
func NewBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the file storage directory",
		Long:  "Copy every collection file into a timestamped directory under the configured backup dir; file driver only",
		Run: func(cmd *cobra.Command, args []string) {
			runBackup()
		},
	}
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage accounts in the system",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			displayName, _ := cmd.Flags().GetString("display-name")
			admin, _ := cmd.Flags().GetBool("admin")
			founder, _ := cmd.Flags().GetBool("founder")

			if email == "" || password == "" {
				log.Fatal("Email and password are required")
			}
			if displayName == "" {
				displayName = email
			}

			createUser(email, password, displayName, admin, founder)
		},
	}

	createUserCmd.Flags().String("email", "", "Account email (required)")
	createUserCmd.Flags().String("password", "", "Account password (required)")
	createUserCmd.Flags().String("display-name", "", "Display name (defaults to the email)")
	createUserCmd.Flags().Bool("admin", false, "Grant admin privileges")
	createUserCmd.Flags().Bool("founder", false, "Grant founder privileges (implies admin)")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting CommunityHub API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"storage", cfg.Storage.Driver,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Infow("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Graceful shutdown failed", "error", err)
	}
}

func requirePostgres(cfg *config.Config) {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Fatalf("This command requires STORAGE_DRIVER=postgres (current: %s)", cfg.Storage.Driver)
	}
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, *database.DB) {
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	driver, err := migratepg.WithInstance(db.DB.DB, &migratepg.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	return m, db
}

func runMigration(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	requirePostgres(cfg)

	m, db := newMigrator(cfg)
	defer db.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	requirePostgres(cfg)

	m, db := newMigrator(cfg)
	defer db.Close()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func runBackup() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Storage.Driver != config.StorageDriverFile {
		log.Fatalf("Backup requires STORAGE_DRIVER=file (current: %s)", cfg.Storage.Driver)
	}

	store := file.New(cfg.Storage.DataDir)
	dest, err := store.Backup(cfg.Storage.BackupDir)
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}

	fmt.Printf("Backup written to %s\n", dest)
}

func createUser(email, password, displayName string, admin, founder bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var users ports.UserRepository
	switch cfg.Storage.Driver {
	case config.StorageDriverFile:
		users = file.NewUserRepository(file.New(cfg.Storage.DataDir))
	case config.StorageDriverPostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		users = postgres.NewUserRepository(db.DB)
	default:
		log.Fatalf("Unknown storage driver %q", cfg.Storage.Driver)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
		IsAdmin:      admin || founder,
		IsFounder:    founder,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Display name: %s\n", user.DisplayName)
	fmt.Printf("  Admin: %t  Founder: %t\n", user.IsAdmin, user.IsFounder)
}
