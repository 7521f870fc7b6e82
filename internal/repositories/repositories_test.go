package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The production models carry postgres defaults (gen_random_uuid, now()), so
// the tables are declared by hand instead of through AutoMigrate.
var testSchema = []string{
	`CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		filename TEXT,
		original_file_name TEXT,
		file_type TEXT,
		file_path TEXT,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE screenings (
		id TEXT PRIMARY KEY,
		job_title TEXT,
		job_description TEXT,
		resume_text TEXT,
		document_id TEXT,
		status TEXT NOT NULL DEFAULT 'queued',
		experience_level TEXT,
		skill_match TEXT,
		relevance_score REAL,
		analysis_summary TEXT,
		agent_decision TEXT,
		final_decision TEXT,
		confidence_score REAL,
		reflection_attempts INTEGER NOT NULL DEFAULT 0,
		stage_path TEXT,
		unrecognized TEXT,
		policy_override BOOLEAN NOT NULL DEFAULT false,
		halt_reason TEXT,
		error_message TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection to :memory: would open its own empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}
