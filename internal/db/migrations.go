package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS questions (
    source TEXT NOT NULL,
    id TEXT NOT NULL,
    question TEXT NOT NULL,
    url TEXT,
    resolved INTEGER NOT NULL DEFAULT 0,
    resolution_datetime TEXT,
    first_seen_at TEXT NOT NULL DEFAULT (datetime('now')),
    last_updated_at TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (source, id)
);

CREATE TABLE IF NOT EXISTS resolution_values (
    rowid_alias INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    question_id TEXT NOT NULL,
    date TEXT NOT NULL,
    value TEXT NOT NULL,
    fetched_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_resolution_values_lookup
    ON resolution_values(source, question_id, date);

CREATE TABLE IF NOT EXISTS resolution_sets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    forecast_due_date TEXT NOT NULL,
    question_set TEXT NOT NULL,
    path TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE (forecast_due_date, question_set)
);
CREATE INDEX IF NOT EXISTS idx_resolution_sets_due ON resolution_sets(forecast_due_date);

CREATE TABLE IF NOT EXISTS scores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    organization TEXT NOT NULL,
    model TEXT NOT NULL,
    question_set TEXT NOT NULL,
    forecast_due_date TEXT NOT NULL,
    source TEXT NOT NULL,
    question_id TEXT NOT NULL,
    direction TEXT,
    resolution_date TEXT,
    forecast REAL NOT NULL,
    imputed INTEGER NOT NULL DEFAULT 0,
    resolved_to REAL NOT NULL,
    score REAL NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_scores_org_model ON scores(organization, model);
CREATE INDEX IF NOT EXISTS idx_scores_due ON scores(forecast_due_date);
`
