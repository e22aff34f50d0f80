package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Schema is created idempotently at startup; every statement is safe to run
// against an already-initialised database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		full_name TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('student', 'cook', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS student_profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		allergies TEXT NOT NULL DEFAULT '',
		preferences TEXT NOT NULL DEFAULT '',
		balance DOUBLE PRECISION NOT NULL DEFAULT 0,
		encrypted_card_number TEXT,
		card_expiry TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS dishes (
		name TEXT PRIMARY KEY,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS dish_recipes (
		dish_name TEXT NOT NULL REFERENCES dishes(name),
		ingredient TEXT NOT NULL,
		quantity DOUBLE PRECISION NOT NULL,
		unit TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		product_name TEXT PRIMARY KEY,
		quantity DOUBLE PRECISION NOT NULL,
		unit TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_sets (
		id UUID PRIMARY KEY,
		meal_date DATE UNIQUE NOT NULL,
		breakfast_main TEXT NOT NULL REFERENCES dishes(name),
		breakfast_drink TEXT NOT NULL REFERENCES dishes(name),
		lunch_first TEXT NOT NULL REFERENCES dishes(name),
		lunch_second TEXT NOT NULL REFERENCES dishes(name),
		lunch_drink TEXT NOT NULL REFERENCES dishes(name)
	)`,
	`CREATE TABLE IF NOT EXISTS meal_records (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id),
		menu_id UUID NOT NULL REFERENCES menu_sets(id),
		meal_type TEXT NOT NULL CHECK (meal_type IN ('breakfast', 'lunch')),
		taken_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		confirmed BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id),
		amount DOUBLE PRECISION NOT NULL,
		payment_type TEXT NOT NULL CHECK (payment_type IN ('one-time', 'subscription')),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id),
		duration TEXT NOT NULL CHECK (duration IN ('week', 'month', 'year')),
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS prepared_dishes (
		id UUID PRIMARY KEY,
		dish_name TEXT NOT NULL REFERENCES dishes(name),
		quantity INTEGER NOT NULL DEFAULT 1,
		prepared_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_requests (
		id UUID PRIMARY KEY,
		cook_id UUID NOT NULL REFERENCES users(id),
		items TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		approved_by UUID REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id),
		dish_name TEXT NOT NULL,
		rating INTEGER CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}
	logger.Info().Int("statements", len(schemaStatements)).Msg("schema up to date")
	return nil
}

type seedUser struct {
	fullName string
	password string
	role     string
}

type seedDish struct {
	name  string
	price float64
}

type seedRecipeLine struct {
	dish       string
	ingredient string
	quantity   float64
	unit       string
}

type seedStock struct {
	product  string
	quantity float64
	unit     string
}

var seedUsers = []seedUser{
	{"Margaret Hill", "admin", "admin"},
	{"Victor Stone", "cook", "cook"},
	{"Oliver Bennett", "student", "student"},
}

var seedDishes = []seedDish{
	{"Oatmeal porridge", 40},
	{"Cocoa", 20},
	{"Borscht", 60},
	{"Cutlet with potatoes", 70},
	{"Dried fruit compote", 15},
}

var seedRecipes = []seedRecipeLine{
	{"Oatmeal porridge", "Oats", 0.1, "kg"},
	{"Oatmeal porridge", "Milk", 0.2, "l"},
	{"Cocoa", "Cocoa powder", 0.01, "kg"},
	{"Cocoa", "Milk", 0.2, "l"},
	{"Borscht", "Beetroot", 0.3, "kg"},
	{"Borscht", "Cabbage", 0.2, "kg"},
	{"Borscht", "Potato", 0.2, "kg"},
	{"Cutlet with potatoes", "Minced meat", 0.15, "kg"},
	{"Cutlet with potatoes", "Potato", 0.2, "kg"},
	{"Dried fruit compote", "Dried fruits", 0.05, "kg"},
	{"Dried fruit compote", "Sugar", 0.02, "kg"},
}

var seedInventory = []seedStock{
	{"Oats", 10, "kg"},
	{"Milk", 50, "l"},
	{"Cocoa powder", 2, "kg"},
	{"Beetroot", 15, "kg"},
	{"Cabbage", 12, "kg"},
	{"Potato", 30, "kg"},
	{"Minced meat", 8, "kg"},
	{"Dried fruits", 5, "kg"},
	{"Sugar", 10, "kg"},
}

// Seed inserts the demo accounts, the fixed price list, the recipe and
// inventory catalog, and menu sets for today and tomorrow. Existing rows are
// left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, u := range seedUsers {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE full_name = $1)`, u.fullName).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check seed user: %w", err)
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		id := uuid.New()
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, full_name, password_hash, role) VALUES ($1, $2, $3, $4)`,
			id, u.fullName, string(hash), u.role)
		if err != nil {
			return fmt.Errorf("failed to insert seed user: %w", err)
		}

		if u.role == "student" {
			_, err = pool.Exec(ctx,
				`INSERT INTO student_profiles (user_id, balance) VALUES ($1, 0)`, id)
			if err != nil {
				return fmt.Errorf("failed to insert seed profile: %w", err)
			}
		}
	}

	for _, d := range seedDishes {
		_, err := pool.Exec(ctx,
			`INSERT INTO dishes (name, price) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			d.name, d.price)
		if err != nil {
			return fmt.Errorf("failed to insert seed dish: %w", err)
		}
	}

	for _, r := range seedRecipes {
		_, err := pool.Exec(ctx, `
			INSERT INTO dish_recipes (dish_name, ingredient, quantity, unit)
			SELECT $1, $2, $3, $4
			WHERE NOT EXISTS (
				SELECT 1 FROM dish_recipes WHERE dish_name = $1 AND ingredient = $2
			)`,
			r.dish, r.ingredient, r.quantity, r.unit)
		if err != nil {
			return fmt.Errorf("failed to insert seed recipe line: %w", err)
		}
	}

	for _, s := range seedInventory {
		_, err := pool.Exec(ctx,
			`INSERT INTO inventory (product_name, quantity, unit) VALUES ($1, $2, $3)
			 ON CONFLICT (product_name) DO NOTHING`,
			s.product, s.quantity, s.unit)
		if err != nil {
			return fmt.Errorf("failed to insert seed inventory: %w", err)
		}
	}

	today := time.Now()
	for i := 0; i < 2; i++ {
		day := today.AddDate(0, 0, i)
		_, err := pool.Exec(ctx, `
			INSERT INTO menu_sets (id, meal_date, breakfast_main, breakfast_drink, lunch_first, lunch_second, lunch_drink)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (meal_date) DO NOTHING`,
			uuid.New(), day, "Oatmeal porridge", "Cocoa", "Borscht", "Cutlet with potatoes", "Dried fruit compote")
		if err != nil {
			return fmt.Errorf("failed to insert seed menu set: %w", err)
		}
	}

	logger.Info().Msg("seed data applied")
	return nil
}
