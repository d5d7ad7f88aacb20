package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type categorySeed struct {
	Name        string
	Department  string
	Description string
}

type productSeed struct {
	Name        string
	Description string
	Reference   string
	PriceCents  int64
	Stock       int
	Category    string
}

// Apply inserts demo catalog data and an admin account for manual testing.
// It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []categorySeed{
		{Name: "Apparel", Department: "Fashion", Description: "Shirts, hoodies and caps"},
		{Name: "Drinkware", Department: "Home", Description: "Mugs and bottles"},
	}

	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		id, err := ensureCategory(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = id
	}

	products := []productSeed{
		{Name: "Demo T-Shirt", Description: "Soft cotton tee", Reference: "REF-TSHIRT", PriceCents: 1999, Stock: 50, Category: "Apparel"},
		{Name: "Demo Hoodie", Description: "Fleece-lined hoodie", Reference: "REF-HOODIE", PriceCents: 4999, Stock: 20, Category: "Apparel"},
		{Name: "Demo Mug", Description: "Ceramic mug with demo logo", Reference: "REF-MUG", PriceCents: 1299, Stock: 100, Category: "Drinkware"},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Reference, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@storefront.local", "changeme1"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) (int64, error) {
	const q = `
INSERT INTO categories (name, department, description)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO NOTHING
`
	if _, err := pool.Exec(ctx, q, c.Name, c.Department, c.Description); err != nil {
		return 0, err
	}
	var id int64
	if err := pool.QueryRow(ctx, `SELECT id FROM categories WHERE name = $1`, c.Name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID int64, p productSeed) error {
	const q = `
INSERT INTO products (name, description, reference, price_cents, stock, category_id)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (SELECT 1 FROM products WHERE reference = $3)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Description, p.Reference, p.PriceCents, p.Stock, categoryID)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password_hash, role)
VALUES ('Admin', $1, $2, 'admin')
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}
