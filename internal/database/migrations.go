package database

const schema = `
CREATE TABLE IF NOT EXISTS series (
    name TEXT PRIMARY KEY,
    label TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    dimension_key TEXT NOT NULL DEFAULT 'd',
    dimension_name TEXT NOT NULL DEFAULT 'date',
    base_rate REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS observations (
    series TEXT NOT NULL,
    date TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (series, date)
);

CREATE INDEX IF NOT EXISTS idx_observations_date ON observations (series, date);
`
