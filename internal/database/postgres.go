package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Feedback table (standalone records; user_id references a Mongo user
		// by hex id and is nullable)
		`CREATE TABLE IF NOT EXISTS feedbacks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			reference UUID NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			subject VARCHAR(200) NOT NULL,
			message VARCHAR(2000) NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'general',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			priority VARCHAR(10) NOT NULL DEFAULT 'medium',
			user_id VARCHAR(24),
			is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
			response TEXT,
			responded_at TIMESTAMP,
			ip_address VARCHAR(255)
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_created_at ON feedbacks(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_status ON feedbacks(status)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_type ON feedbacks(type)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_priority ON feedbacks(priority)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_email ON feedbacks(email)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
