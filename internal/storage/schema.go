package storage

// SchemaVersion is the ledger layout this package reads. Ledger writers
// record it with PRAGMA user_version.
const SchemaVersion = 1

// Schema is the layout of a ledger database. Money is kept as decimal
// text and dates as RFC3339 or YYYY-MM-DD text. tags holds a JSON list of
// {type, name} objects (or the {type: [{name}]} map form). The charge
// columns are NULL for anything that is not a card charge.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id                 TEXT PRIMARY KEY,
	type               TEXT NOT NULL CHECK (type IN ('income', 'expense')),
	value              TEXT NOT NULL,
	date               TEXT NOT NULL,
	payment_method     TEXT NOT NULL DEFAULT '',
	category           TEXT,
	tags               TEXT,
	modality           TEXT,
	installments_count INTEGER,
	total_amount       TEXT,
	purchase_date      TEXT,
	card_id            TEXT,
	card_last4         TEXT
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`
