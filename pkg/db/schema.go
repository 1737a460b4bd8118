package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// The reminders component keeps each named collection as one serialized value.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS medtrack_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
