// Command seed provisions a fresh database: it applies the schema,
// creates the initial admin account, and optionally loads a small
// sample catalog for local development.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    full_name     TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    last_login_at TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
    id                 TEXT PRIMARY KEY,
    title              TEXT NOT NULL,
    description        TEXT NOT NULL DEFAULT '',
    duration           TEXT NOT NULL DEFAULT '',
    credits            INTEGER NOT NULL DEFAULT 0,
    fee                BIGINT NOT NULL DEFAULT 0,
    awarding_body      TEXT NOT NULL DEFAULT '',
    entry_requirements TEXT NOT NULL DEFAULT '',
    status             TEXT NOT NULL DEFAULT 'active',
    image              TEXT NOT NULL DEFAULT '',
    created_at         TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS instructors (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    email          TEXT NOT NULL,
    phone          TEXT NOT NULL DEFAULT '',
    specialization TEXT NOT NULL DEFAULT '',
    experience     TEXT NOT NULL DEFAULT '',
    qualification  TEXT NOT NULL DEFAULT '',
    bio            TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'active',
    rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
    students       INTEGER NOT NULL DEFAULT 0,
    courses        TEXT[] NOT NULL DEFAULT '{}',
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS modules (
    id               TEXT PRIMARY KEY,
    course_id        TEXT NOT NULL,
    title            TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    position         INTEGER NOT NULL DEFAULT 0,
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS quizzes (
    id               TEXT PRIMARY KEY,
    course_id        TEXT NOT NULL,
    title            TEXT NOT NULL,
    questions        INTEGER NOT NULL DEFAULT 0,
    passing_score    INTEGER NOT NULL DEFAULT 0,
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
    id          TEXT PRIMARY KEY,
    course_id   TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    due_date    TIMESTAMPTZ,
    max_score   INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
    id                    TEXT PRIMARY KEY,
    full_name             TEXT NOT NULL,
    email                 TEXT NOT NULL,
    phone                 TEXT NOT NULL,
    level                 TEXT NOT NULL,
    course_id             TEXT NOT NULL,
    course_title          TEXT NOT NULL,
    fees                  BIGINT NOT NULL,
    enrollment_date       TIMESTAMPTZ NOT NULL,
    stage                 TEXT NOT NULL,
    voucher_generated     BOOLEAN NOT NULL DEFAULT FALSE,
    payment_slip_uploaded BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS payment_slips (
    id            TEXT PRIMARY KEY,
    enrollment_id TEXT NOT NULL,
    file_name     TEXT NOT NULL,
    file_size     BIGINT NOT NULL,
    mime_type     TEXT NOT NULL,
    file_path     TEXT NOT NULL,
    remarks       TEXT NOT NULL DEFAULT '',
    uploaded_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments (course_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_stage ON enrollments (stage);
CREATE INDEX IF NOT EXISTS idx_payment_slips_enrollment ON payment_slips (enrollment_id);
`

func main() {
	var (
		dsn           string
		adminEmail    string
		adminPassword string
		adminName     string
		withSamples   bool
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.StringVar(&adminEmail, "admin-email", "admin@skillport.edu", "Initial admin login email")
	flag.StringVar(&adminPassword, "admin-password", "", "Initial admin password (required)")
	flag.StringVar(&adminName, "admin-name", "Portal Administrator", "Display name for the admin account")
	flag.BoolVar(&withSamples, "samples", false, "Load a sample catalog for local development")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing -dsn (or DATABASE_URL)")
	}
	if adminPassword == "" {
		log.Fatal("missing -admin-password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Println("schema applied")

	if err := createAdmin(ctx, db, adminEmail, adminName, adminPassword); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	if withSamples {
		if err := loadSamples(ctx, db); err != nil {
			log.Fatalf("failed to load samples: %v", err)
		}
		log.Println("sample catalog loaded")
	}
}

func createAdmin(ctx context.Context, db *sqlx.DB, email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	const query = `INSERT INTO users (id, email, full_name, password_hash, role, active, created_at)
		VALUES ($1, $2, $3, $4, 'ADMIN', TRUE, $5)
		ON CONFLICT (email) DO NOTHING`
	res, err := db.ExecContext(ctx, query, uuid.NewString(), email, name, string(hash), time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("admin %s already exists, skipping", email)
		return nil
	}
	log.Printf("admin %s created", email)
	return nil
}

type sampleCourse struct {
	title        string
	description  string
	duration     string
	credits      int
	fee          int64
	awardingBody string
}

func loadSamples(ctx context.Context, db *sqlx.DB) error {
	samples := []sampleCourse{
		{"Web Development Bootcamp", "Full-stack development with modern tooling.", "6 months", 24, 45000, "Skillport Institute"},
		{"Data Science Foundations", "Statistics, Python, and applied machine learning.", "4 months", 16, 38000, "Skillport Institute"},
		{"Graphic Design Essentials", "Typography, layout, and brand design.", "3 months", 12, 25000, "Skillport Institute"},
	}

	const query = `INSERT INTO courses (id, title, description, duration, credits, fee, awarding_body, entry_requirements, status, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', 'active', '', $8, $8)`
	now := time.Now().UTC()
	for _, s := range samples {
		if _, err := db.ExecContext(ctx, query, uuid.NewString(), s.title, s.description, s.duration, s.credits, s.fee, s.awardingBody, now); err != nil {
			return err
		}
	}
	return nil
}
