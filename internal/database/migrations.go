package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cart_sessions (
			id SERIAL PRIMARY KEY,
			session_id VARCHAR(128) UNIQUE NOT NULL,
			user_id INTEGER,
			applied_coupons JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_sessions_session_id ON cart_sessions(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_sessions_user_id ON cart_sessions(user_id);`,
		`CREATE OR REPLACE FUNCTION update_updated_at_column()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ language 'plpgsql';`,
		`DROP TRIGGER IF EXISTS update_cart_sessions_updated_at ON cart_sessions;`,
		`CREATE TRIGGER update_cart_sessions_updated_at
		BEFORE UPDATE ON cart_sessions
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id SERIAL PRIMARY KEY,
			cart_session_id INTEGER NOT NULL REFERENCES cart_sessions(id) ON DELETE CASCADE,
			product_id VARCHAR(128) NOT NULL,
			title VARCHAR(512) NOT NULL,
			image VARCHAR(1024) NOT NULL DEFAULT '',
			final_price_discount DECIMAL(10,2),
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			variant_title VARCHAR(256),
			variant_price_delta DECIMAL(10,2),
			shipping_override DECIMAL(10,2),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_cart_session_id ON cart_items(cart_session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cart_items_product_id ON cart_items(product_id);`,
		`DROP TRIGGER IF EXISTS update_cart_items_updated_at ON cart_items;`,
		`CREATE TRIGGER update_cart_items_updated_at
		BEFORE UPDATE ON cart_items
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	return nil
}
