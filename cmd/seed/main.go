package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// CLI flags
var (
	dataPath    = flag.String("data", "seeds/catalog.yaml", "Path to the catalog seed YAML")
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform destructive replace")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// YAML contract: a list of banks, each owning its products. Replacing the
// catalog also wipes applications, since they hang off products.

type BankSeed struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	LogoURL       string        `yaml:"logo_url"`
	Website       string        `yaml:"website"`
	ContactNumber string        `yaml:"contact_number"`
	Email         string        `yaml:"email"`
	Products      []ProductSeed `yaml:"products"`
}

type ProductSeed struct {
	Name                       string   `yaml:"name"`
	Type                       string   `yaml:"type"`
	InterestRate               float64  `yaml:"interest_rate"`
	MinDeposit                 float64  `yaml:"min_deposit"`
	Tenure                     string   `yaml:"tenure"`
	ProductOverview            string   `yaml:"product_overview"`
	KeyFeatures                []string `yaml:"key_features"`
	WithdrawalRules            string   `yaml:"withdrawal_rules"`
	EligibilityCriteria        string   `yaml:"eligibility_criteria"`
	RequiredDocuments          []string `yaml:"required_documents"`
	MaxDeposit                 *float64 `yaml:"max_deposit"`
	CompoundingFrequency       string   `yaml:"compounding_frequency"`
	PrematureWithdrawalPenalty string   `yaml:"premature_withdrawal_penalty"`
}

type Counts struct {
	Banks        int64
	Products     int64
	Applications int64
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	// Resolve the env fallback here, after godotenv has loaded .env.local;
	// a flag default would read DATABASE_URL before it exists.
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	banks, err := loadYAML(*dataPath)
	if err != nil {
		fatalf("YAML error: %v", err)
	}

	if err := validateBanks(banks); err != nil {
		fatalf("seed validation failed: %v", err)
	}

	fmt.Printf("Loaded %d banks from %s\n", len(banks), *dataPath)

	if *dryRun {
		printPlan(banks)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	before, err := countAll(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: banks=%d products=%d applications=%d\n",
		before.Banks, before.Products, before.Applications)

	// Destructive replace, children first
	if err := wipeCatalogData(ctx, tx); err != nil {
		fatalf("wipe data: %v", err)
	}

	if err := insertAll(ctx, tx, banks); err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countAll(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  banks=%d products=%d applications=%d\n",
		after.Banks, after.Products, after.Applications)

	// sanity: products match the seed file
	var wantProducts int64
	for _, b := range banks {
		wantProducts += int64(len(b.Products))
	}
	if after.Banks != int64(len(banks)) || after.Products != wantProducts {
		fatalf("sanity check failed: banks=%d products=%d (want %d/%d)",
			after.Banks, after.Products, len(banks), wantProducts)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Seed complete")
}

func loadYAML(path string) ([]BankSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var banks []BankSeed
	if err := yaml.Unmarshal(raw, &banks); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return banks, nil
}

func validateBanks(banks []BankSeed) error {
	if len(banks) == 0 {
		return fmt.Errorf("seed file has no banks")
	}
	seen := map[string]struct{}{}
	for i, b := range banks {
		if b.Name == "" {
			return fmt.Errorf("bank %d: name is empty", i)
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("duplicate bank name: %q", b.Name)
		}
		seen[b.Name] = struct{}{}
		for j, p := range b.Products {
			if p.Name == "" || p.Type == "" || p.Tenure == "" {
				return fmt.Errorf("bank %q product %d: name, type and tenure are required", b.Name, j)
			}
		}
	}
	return nil
}

func printPlan(banks []BankSeed) {
	for _, b := range banks {
		fmt.Printf("  %s (%d products)\n", b.Name, len(b.Products))
	}
}

func countAll(ctx context.Context, tx *sql.Tx) (Counts, error) {
	var c Counts
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM catalog.banks`).Scan(&c.Banks); err != nil {
		return c, err
	}
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM catalog.products`).Scan(&c.Products); err != nil {
		return c, err
	}
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM catalog.applications`).Scan(&c.Applications); err != nil {
		return c, err
	}
	return c, nil
}

func wipeCatalogData(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DELETE FROM catalog.applications`,
		`DELETE FROM catalog.products`,
		`DELETE FROM catalog.banks`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, banks []BankSeed) error {
	for _, b := range banks {
		var bankID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO catalog.banks
				(name, description, logo_url, website, contact_number, email, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
			RETURNING id
		`, b.Name, b.Description, b.LogoURL, b.Website, b.ContactNumber, b.Email).Scan(&bankID)
		if err != nil {
			return fmt.Errorf("insert bank %q: %w", b.Name, err)
		}

		for _, p := range b.Products {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO catalog.products
					(bank_id, name, type, interest_rate, min_deposit, tenure,
					 product_overview, key_features, withdrawal_rules,
					 eligibility_criteria, required_documents, max_deposit,
					 compounding_frequency, premature_withdrawal_penalty,
					 is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text[], $9, $10, $11::text[], $12, $13, $14, true, now(), now())
			`, bankID, p.Name, p.Type, p.InterestRate, p.MinDeposit, p.Tenure,
				p.ProductOverview, pq.Array(p.KeyFeatures), p.WithdrawalRules,
				p.EligibilityCriteria, pq.Array(p.RequiredDocuments), p.MaxDeposit,
				p.CompoundingFrequency, p.PrematureWithdrawalPenalty)
			if err != nil {
				return fmt.Errorf("insert product %q under %q: %w", p.Name, b.Name, err)
			}
		}
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
