// Package models holds the GORM row types persisted by internal/store.
// Shaped after the teacher's own models package (Stage/Apply/Session):
// one struct per table, table names pinned explicitly rather than left to
// GORM's pluralisation guess.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run records one search invocation: the pattern that was run, a digest of
// the SQL it ran against, and a summary of what it found. Recording a run
// never affects what Search returns; the store is a pure side observer.
type Run struct {
	ID        string `gorm:"primaryKey;type:varchar(32)"`
	Pattern   string `gorm:"type:text;not null"`
	SQLDigest string `gorm:"type:varchar(64);index"` // SHA256 of the searched SQL text

	MatchCount    int            `gorm:"default:0"`
	CapturedKeys  datatypes.JSON `gorm:"type:jsonb"` // ordered []string of capture names seen
	EmbeddedCount int            `gorm:"default:0"`  // matches found inside DO/function bodies

	SourcePath string `gorm:"type:text"` // file path, or "" for an inline/stdin search

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName pins the table name so it doesn't drift with GORM's
// pluralisation rules across schema changes.
func (Run) TableName() string { return "runs" }
