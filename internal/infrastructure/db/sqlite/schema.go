package sqlite

// Schema DDL, one table per resource kind.
const (
	createStates = `CREATE TABLE IF NOT EXISTS states (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    name TEXT NOT NULL
);`

	createCities = `CREATE TABLE IF NOT EXISTS cities (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    name TEXT NOT NULL,
    state_id TEXT NOT NULL,
    FOREIGN KEY (state_id) REFERENCES states(id) ON DELETE CASCADE
);`

	createAmenities = `CREATE TABLE IF NOT EXISTS amenities (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    name TEXT NOT NULL
);`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    email TEXT NOT NULL,
    password TEXT NOT NULL,
    first_name TEXT,
    last_name TEXT
);`

	createIndexes = `
CREATE INDEX IF NOT EXISTS idx_cities_state_id ON cities(state_id);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`
)

var schemaStatements = []string{
	createStates,
	createCities,
	createAmenities,
	createUsers,
	createIndexes,
}
