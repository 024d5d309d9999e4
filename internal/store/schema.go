package store

// schemaVersionV1 stored only the source, digest and record count per run.
const schemaVersionV1 = 1

// schemaVersionV2 adds block and observation counts to runs.
const schemaVersionV2 = 2

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV2

var schemaV2 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT NOT NULL,
	sha256       TEXT,
	created_at   TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0,
	blocks       INTEGER NOT NULL DEFAULT 0,
	observations INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS records (
	run_id         INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	instance_name  TEXT NOT NULL,
	type_name      TEXT NOT NULL,
	fail_safe_type TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_records_instance ON records(instance_name);
`

var migrationV1ToV2 = `
ALTER TABLE runs ADD COLUMN blocks INTEGER NOT NULL DEFAULT 0;
ALTER TABLE runs ADD COLUMN observations INTEGER NOT NULL DEFAULT 0;
CREATE INDEX IF NOT EXISTS idx_records_instance ON records(instance_name);
UPDATE schema_version SET version = 2;
`

// schemaV1 is the original DDL, kept to recognise and migrate older databases.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	source       TEXT NOT NULL,
	sha256       TEXT,
	created_at   TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS records (
	run_id         INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position       INTEGER NOT NULL,
	instance_name  TEXT NOT NULL,
	type_name      TEXT NOT NULL,
	fail_safe_type TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
`
