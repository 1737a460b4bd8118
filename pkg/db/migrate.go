package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// TargetSchemaVersion is the highest schema version this version of the code supports for the reminders component.
	TargetSchemaVersion int64 = 1
	// RemindersDBComponent is the name of the reminders database component.
	RemindersDBComponent = "remindersdb"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found or the versions table doesn't exist.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM medtrack_versions WHERE component = ?;`
	row := db.QueryRow(query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "medtrack_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates the tables of the reminders component
// and records the specified schema version for it.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	_, err := db.Exec(SchemaV1)
	if err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO medtrack_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	_, err = db.Exec(insertVersionSQL, RemindersDBComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", RemindersDBComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the reminders component of the database to appTargetSchemaVersion.
// dbIdentifierForLog is used for logging purposes only.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64, log zerolog.Logger) error {
	currentDBVersion, err := GetComponentSchemaVersion(db, RemindersDBComponent)
	if err != nil {
		return err
	}

	log = log.With().
		Str("component", RemindersDBComponent).
		Str("db", dbIdentifierForLog).
		Logger()

	switch {
	case currentDBVersion == 0:
		log.Info().Int64("target_version", appTargetSchemaVersion).Msg("initializing schema")
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", RemindersDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug().Int64("version", currentDBVersion).Msg("schema up to date")
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", RemindersDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", RemindersDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
