package userdata

// Schema creates the overlay tables.
const Schema = `
CREATE TABLE IF NOT EXISTS scene_data (
	id TEXT PRIMARY KEY,
	rating100 INTEGER,
	organized BOOLEAN NOT NULL DEFAULT FALSE,
	o_counter INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS performer_data (
	id TEXT PRIMARY KEY,
	favorite BOOLEAN NOT NULL DEFAULT FALSE,
	rating100 INTEGER,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_performer_data_favorite ON performer_data(favorite);
`
