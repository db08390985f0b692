package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Organizations discovered by the directory scraper (or loaded from CSV).
CREATE TABLE IF NOT EXISTS organizations (
    org_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    url TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations(name);

-- Analysis runs: one row per invocation of the analyze command.
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    org_count INTEGER NOT NULL DEFAULT 0,
    analyzed INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    render_javascript BOOLEAN NOT NULL DEFAULT 0
);

-- One result per organization per run.
CREATE TABLE IF NOT EXISTS results (
    result_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    org_id INTEGER NOT NULL,
    fetch_status TEXT NOT NULL,
    primary_language TEXT NOT NULL,
    primary_language_source TEXT NOT NULL,
    has_language_options BOOLEAN NOT NULL DEFAULT 0,
    language_option_codes TEXT,      -- JSON array of codes
    has_non_english_resources BOOLEAN NOT NULL DEFAULT 0,
    sample_links TEXT,               -- JSON array of hrefs, at most 5
    error TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    FOREIGN KEY (org_id) REFERENCES organizations(org_id) ON DELETE CASCADE,
    UNIQUE(run_id, org_id)
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_language ON results(primary_language);
`
