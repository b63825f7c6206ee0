package config

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"telegram-admin/internal/utils"
)

// Database is the process-wide shared handle. It connects lazily on the
// first Handle call so local tooling can run without a database; when
// the connection string is empty or the connect fails it reports
// unavailable instead of erroring, and each failed attempt logs one
// warning.
type Database struct {
	url string
	mu  sync.Mutex
	db  *sql.DB
}

func NewDatabase(url string) *Database {
	return &Database{url: url}
}

// Handle returns the shared *sql.DB and whether it is usable. Callers
// must treat ok == false as "degrade on reads, refuse writes".
func (d *Database) Handle() (*sql.DB, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		return d.db, true
	}
	if d.url == "" {
		utils.LogWarning("Database not configured")
		return nil, false
	}

	driver, dsn := resolveDriver(d.url)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		utils.LogWarning("Failed to open database: %v", err)
		return nil, false
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		utils.LogWarning("Failed to connect to database: %v", err)
		db.Close()
		return nil, false
	}

	if err := bootstrap(db, driver); err != nil {
		utils.LogWarning("Failed to create schema: %v", err)
		db.Close()
		return nil, false
	}

	d.db = db
	return d.db, true
}

func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// resolveDriver picks mysql for DSN-looking strings and falls back to a
// local sqlite file otherwise.
func resolveDriver(url string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(url, "mysql://"):
		dsn = strings.TrimPrefix(url, "mysql://")
		driver = "mysql"
	case strings.Contains(url, "@tcp("):
		dsn = url
		driver = "mysql"
	case strings.HasPrefix(url, "sqlite://"):
		dsn = strings.TrimPrefix(url, "sqlite://")
		driver = "sqlite"
	default:
		dsn = url
		driver = "sqlite"
	}

	if driver == "mysql" && !strings.Contains(dsn, "parseTime") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}
	return driver, dsn
}

func bootstrap(db *sql.DB, driver string) error {
	autoinc := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "mysql" {
		autoinc = "INT AUTO_INCREMENT PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			openId VARCHAR(64) NOT NULL UNIQUE,
			name TEXT,
			email VARCHAR(320),
			loginMethod VARCHAR(64),
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			createdAt TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updatedAt TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			lastSignedIn TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS contacts (
			id %s,
			user_id INT NOT NULL,
			telegram_id VARCHAR(64) NOT NULL,
			first_name VARCHAR(255),
			last_name VARCHAR(255),
			phone VARCHAR(20),
			username VARCHAR(255),
			is_bot INT NOT NULL DEFAULT 0,
			is_active INT NOT NULL DEFAULT 1,
			last_message_at TIMESTAMP NULL,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chats (
			id %s,
			user_id INT NOT NULL,
			telegram_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			type VARCHAR(16) NOT NULL,
			members_count INT DEFAULT 0,
			description TEXT,
			is_parsed INT NOT NULL DEFAULT 0,
			last_parsed_at TIMESTAMP NULL,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS messages (
			id %s,
			user_id INT NOT NULL,
			contact_id INT,
			chat_id INT,
			telegram_message_id VARCHAR(64),
			sender_telegram_id VARCHAR(64),
			sender_name VARCHAR(255),
			text TEXT,
			direction VARCHAR(16) NOT NULL,
			status VARCHAR(16) DEFAULT 'sent',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS campaigns (
			id %s,
			user_id INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			total_contacts INT DEFAULT 0,
			sent_count INT DEFAULT 0,
			delivered_count INT DEFAULT 0,
			read_count INT DEFAULT 0,
			response_count INT DEFAULT 0,
			status VARCHAR(16) DEFAULT 'draft',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, autoinc),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating table: %v", err)
		}
	}
	return nil
}
