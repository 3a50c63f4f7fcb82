package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    scenario_id          TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    plan                 TEXT NOT NULL,
    business_type        TEXT NOT NULL,
    monthly_revenue      REAL NOT NULL,
    average_order_value  REAL NOT NULL DEFAULT 0,
    current_leads        REAL NOT NULL DEFAULT 0,
    conversion_rate      REAL NOT NULL DEFAULT 0,
    hours_per_week       REAL NOT NULL DEFAULT 0,
    hourly_rate          REAL NOT NULL DEFAULT 0,
    notes                TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenarios_created ON scenarios(created_at);
CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
`
