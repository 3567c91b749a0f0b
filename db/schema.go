package db

import "fmt"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// GetSchemaSQL возвращает схему для драйвера. Тесты используют ту же схему,
// что и продакшен, чтобы запросы репозиториев не расходились со столбцами.
func GetSchemaSQL(driver string) (string, error) {
	switch driver {
	case DriverPostgres:
		return postgresSchema, nil
	case DriverSQLite:
		return sqliteSchema, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	professional_type INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id UUID NOT NULL REFERENCES users(id),
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS shifts (
	id BIGSERIAL PRIMARY KEY,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	location_id BIGINT NOT NULL REFERENCES locations(id),
	user_id UUID NOT NULL REFERENCES users(id),
	has_pending_offer BOOLEAN NOT NULL DEFAULT FALSE,
	version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id);

CREATE TABLE IF NOT EXISTS shift_passes (
	id BIGSERIAL PRIMARY KEY,
	created_by UUID NOT NULL REFERENCES users(id),
	active BOOLEAN NOT NULL,
	final_user_id UUID REFERENCES users(id),
	origin_shift_id BIGINT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	location_name TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_passes_active_origin
	ON shift_passes(origin_shift_id) WHERE active;

CREATE TABLE IF NOT EXISTS shift_pass_offered_users (
	shift_pass_id BIGINT NOT NULL REFERENCES shift_passes(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	PRIMARY KEY (shift_pass_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_offered_users_user ON shift_pass_offered_users(user_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	professional_type INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	owner_id TEXT NOT NULL REFERENCES users(id),
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS shifts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	value REAL NOT NULL,
	location_id INTEGER NOT NULL REFERENCES locations(id),
	user_id TEXT NOT NULL REFERENCES users(id),
	has_pending_offer BOOLEAN NOT NULL DEFAULT FALSE,
	version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id);

CREATE TABLE IF NOT EXISTS shift_passes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_by TEXT NOT NULL REFERENCES users(id),
	active BOOLEAN NOT NULL,
	final_user_id TEXT REFERENCES users(id),
	origin_shift_id INTEGER NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	value REAL NOT NULL,
	location_name TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_shift_passes_active_origin
	ON shift_passes(origin_shift_id) WHERE active;

CREATE TABLE IF NOT EXISTS shift_pass_offered_users (
	shift_pass_id INTEGER NOT NULL REFERENCES shift_passes(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id),
	PRIMARY KEY (shift_pass_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_offered_users_user ON shift_pass_offered_users(user_id);
`
