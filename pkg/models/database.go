package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: newGormLogger(log.Logger),
	}
}

// Open connects to PostgreSQL when a host is configured and to the
// SQLite file otherwise. The directory of the SQLite file is created
// if it does not exist.
func Open(c config.DatabaseConfig) error {
	if c.Host != "" {
		log.Info().Str("host", c.Host).Int("port", c.Port).Str("database", c.Name).Msg("Database")
		return ConnectPostgres(c.PostgresDSN())
	}

	err := os.MkdirAll(filepath.Dir(c.Path), os.ModePerm)
	if err != nil {
		return fmt.Errorf("could not create the data directory: %w", err)
	}

	log.Info().Str("path", c.Path).Msg("Database")
	return Connect(c.Path)
}

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	config := gormConfig()

	// Migration with foreign keys disabled since we're dropping tables
	// during migration
	//
	// sqlite does not support ALTER COLUMN, so tables are copied to a temporary table,
	// then the table is dropped and recreated
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = Migrate(db)
	if err != nil {
		return err
	}

	// Close the connection
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Now, reconnect with foreign keys enabled
	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err = gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

// ConnectPostgres opens a PostgreSQL database. The schema is migrated
// on the same connection since PostgreSQL can alter columns in place.
func ConnectPostgres(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = Migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func registerCallbacks(db *gorm.DB) error {
	// Query callbacks
	err := db.Callback().Query().After("*").Register("warped:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("warped:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("warped:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("warped:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("warped:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("warped:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	return db.Callback().Delete().After("*").Register("warped:after_delete_general", generalCallback)
}

var plural = regexp.MustCompile("ies$")

// resourceName derives a human readable resource name from the table
// the statement operates on.
func resourceName(db *gorm.DB) string {
	name := strings.ReplaceAll(db.Statement.Table, "_", " ")
	name = plural.ReplaceAllString(name, "y")
	return strings.TrimSuffix(name, "s")
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resourceName(db))
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()

	// sqlite reports the constraint by name, postgres by SQLSTATE
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505") {
		db.Error = fmt.Errorf("%w: this %s already exists", ErrConflict, resourceName(db))
		return
	}

	if strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "SQLSTATE 23503") {
		db.Error = fmt.Errorf("%w: a resource referenced by this %s does not exist", ErrValidation, resourceName(db))
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// Migrate migrates all models to the schema defined in the code and
// seeds the default group and category.
func Migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Group{}, Category{}, Tag{}, Transaction{}, TransactionTag{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	group, err := InsertOrFetchGroup(db, UngroupedName)
	if err != nil {
		return fmt.Errorf("error seeding the default group: %w", err)
	}

	_, err = InsertOrFetchCategory(db, UncategorizedName, group.ID)
	if err != nil {
		return fmt.Errorf("error seeding the default category: %w", err)
	}

	return nil
}
