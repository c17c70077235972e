package store

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS profiles (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'landowner', 'public')),
	phone         TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS land_records (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	location         TEXT NOT NULL,
	coordinates      TEXT NOT NULL DEFAULT '',
	size             REAL NOT NULL,
	size_unit        TEXT NOT NULL DEFAULT 'sqm',
	ownership_status TEXT NOT NULL DEFAULT 'pending'
		CHECK (ownership_status IN ('verified', 'pending', 'disputed')),
	zoning           TEXT NOT NULL DEFAULT '',
	price            REAL,
	description      TEXT NOT NULL DEFAULT '',
	owner_id         TEXT REFERENCES profiles(id),
	verified_by      TEXT REFERENCES profiles(id),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_land_records_owner ON land_records(owner_id);
CREATE INDEX IF NOT EXISTS idx_land_records_status ON land_records(ownership_status);

CREATE TABLE IF NOT EXISTS ownership_documents (
	id             TEXT PRIMARY KEY,
	land_record_id TEXT NOT NULL REFERENCES land_records(id) ON DELETE CASCADE,
	document_type  TEXT NOT NULL CHECK (document_type IN ('deed', 'survey', 'certificate', 'other')),
	document_url   TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'approved', 'rejected')),
	submitted_by   TEXT NOT NULL REFERENCES profiles(id),
	reviewed_by    TEXT REFERENCES profiles(id),
	notes          TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_land ON ownership_documents(land_record_id);
CREATE INDEX IF NOT EXISTS idx_documents_submitter ON ownership_documents(submitted_by);

CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	land_record_id   TEXT NOT NULL REFERENCES land_records(id) ON DELETE CASCADE,
	from_owner_id    TEXT NOT NULL REFERENCES profiles(id),
	to_owner_id      TEXT REFERENCES profiles(id),
	transaction_type TEXT NOT NULL CHECK (transaction_type IN ('sale', 'transfer', 'inheritance')),
	amount           REAL,
	status           TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'approved', 'completed', 'cancelled')),
	approved_by      TEXT REFERENCES profiles(id),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_land ON transactions(land_record_id);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'info' CHECK (type IN ('info', 'warning', 'success', 'error')),
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, read);

CREATE TABLE IF NOT EXISTS zoning_laws (
	id          TEXT PRIMARY KEY,
	zone_type   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	regulations TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
	token_hash TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	expires_at DATETIME NOT NULL,
	revoked    INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
