// Package store persists a history of search runs for later auditing, the
// same optional GORM-over-SQLite/libSQL layer the teacher's db package
// provides for its own stage/apply/session history, repointed at this
// engine's (pattern, SQL digest, match count) records instead of code
// transformations.
//
// Persistence is strictly additive: Search and Match never consult the
// store, so a caller who never opens one gets identical results to one
// who does.
package store

import (
	"crypto/sha256"
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/pgfast/internal/search"
	"github.com/oxhq/pgfast/models"
)

// Store wraps a GORM handle scoped to the runs table.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the schema. A dsn beginning with
// "libsql://" (or a plain http(s) URL, for a Turso-fronted database) is
// routed through the libsql driver via gorm.io/driver/sqlite's generic
// DriverName/Conn constructor, mirroring the teacher's db.Connect isURL
// branch; anything else is treated as a local SQLite file path, opened
// through the pure-Go glebarez/sqlite dialector (no cgo dependency for the
// common case), with its parent directory created if missing.
func Open(dsn string, debug bool) (*Store, error) {
	if !isURL(dsn) {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create database directory: %w", err)
			}
		}
	}

	gormCfg := &gorm.Config{}
	if debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("PGFAST_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("store: create libsql connector: %w", err)
		}
		conn := sql.OpenDB(connector)
		dialector = gsqlite.New(gsqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := db.AutoMigrate(&models.Run{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql")
}

// RecordRun writes one row summarising a completed search. sourcePath is
// the file the SQL came from, or "" for an inline query.
func (s *Store) RecordRun(pattern, sqlText, sourcePath string, matches []search.Match, keys []string) (*models.Run, error) {
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("store: marshal captured keys: %w", err)
	}

	embedded := 0
	for _, m := range matches {
		if m.Embedded {
			embedded++
		}
	}

	row := &models.Run{
		ID:            uuid.NewString(),
		Pattern:       pattern,
		SQLDigest:     digest(sqlText),
		MatchCount:    len(matches),
		CapturedKeys:  keysJSON,
		EmbeddedCount: embedded,
		SourcePath:    sourcePath,
		CreatedAt:     time.Now(),
	}
	if err := s.db.Create(row).Error; err != nil {
		return nil, fmt.Errorf("store: record run: %w", err)
	}
	return row, nil
}

// RunsByPattern returns the most recent runs recorded for pattern, newest
// first, used by the CLI's history command to find what to diff against.
func (s *Store) RunsByPattern(pattern string, limit int) ([]models.Run, error) {
	var rows []models.Run
	q := s.db.Where("pattern = ?", pattern).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return rows, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func digest(sqlText string) string {
	sum := sha256.Sum256([]byte(sqlText))
	return hex.EncodeToString(sum[:])
}
