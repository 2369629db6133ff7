// database.go - Handles database connection and setup

package database // Declares the package name

import ( // Import required packages
	"errors"
	"fmt"
	"time"

	"go-blog-backend/config" // Project config
	"go-blog-backend/models" // User, Post and Comment models

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/postgres"    // Postgres driver for GORM (pgx)
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database, runs migrations and seeds the admin user.
func Connect(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil { // If error, return it
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite allows a single writer; one connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto-migrate the models (create tables if needed)
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Create default admin user if configured
	if err := createDefaultAdmin(db, cfg, log); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return sqlite.Open(cfg.DBPath), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// RestartSequence makes the next insert into table receive id 1 again.
// Only the reset side-channel calls it, after the table has been emptied.
func RestartSequence(tx *gorm.DB, table string) error {
	switch tx.Dialector.Name() {
	case "sqlite":
		return tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
	case "postgres":
		return tx.Exec("SELECT setval(pg_get_serial_sequence(?, 'id'), 1, false)", table).Error
	default:
		return fmt.Errorf("restart sequence: unsupported dialect %s", tx.Dialector.Name())
	}
}

// createDefaultAdmin - Creates a default admin user if configured and none exists
// This uses environment variables for security instead of hardcoded credentials
func createDefaultAdmin(db *gorm.DB, cfg *config.Config, log *logrus.Logger) error {
	// Only create admin if explicitly configured
	if !cfg.CreateAdmin {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Warn("CREATE_ADMIN is set but ADMIN_PASSWORD is empty, skipping admin seed")
		return nil
	}

	// Check if any admin user exists
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := models.User{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}
	log.WithField("user_id", adminUser.ID).Info("default admin created")
	return nil
}
