package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Default bootstrap account. Documented, not secret; operators are expected
// to rotate the password after first login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	defaultAdminFullName = "System Administrator"
	defaultAdminEmail    = "admin@hospital.com"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_digest TEXT NOT NULL,
		role TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT DEFAULT '',
		phone TEXT DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		patient_id INTEGER PRIMARY KEY AUTOINCREMENT,
		national_id TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		gender TEXT NOT NULL,
		phone TEXT DEFAULT '',
		email TEXT DEFAULT '',
		address TEXT DEFAULT '',
		emergency_contact TEXT DEFAULT '',
		emergency_phone TEXT DEFAULT '',
		blood_group TEXT DEFAULT '',
		allergies TEXT DEFAULT '',
		medical_history TEXT DEFAULT '',
		insurance_info TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		doctor_id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		specialization TEXT NOT NULL,
		qualification TEXT DEFAULT '',
		experience_years INTEGER DEFAULT 0,
		phone TEXT DEFAULT '',
		email TEXT DEFAULT '',
		address TEXT DEFAULT '',
		consultation_fee REAL DEFAULT 0,
		schedule TEXT DEFAULT '',
		is_available BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		appointment_id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER NOT NULL,
		doctor_id INTEGER NOT NULL,
		appointment_date TEXT NOT NULL,
		appointment_time TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 30,
		status TEXT NOT NULL DEFAULT 'scheduled',
		notes TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (patient_id) REFERENCES patients (patient_id),
		FOREIGN KEY (doctor_id) REFERENCES doctors (doctor_id)
	)`,
	`CREATE TABLE IF NOT EXISTS billing (
		bill_id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER NOT NULL,
		appointment_id INTEGER,
		total_amount REAL NOT NULL,
		paid_amount REAL NOT NULL DEFAULT 0,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT DEFAULT '',
		bill_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		due_date TEXT,
		notes TEXT DEFAULT '',
		FOREIGN KEY (patient_id) REFERENCES patients (patient_id),
		FOREIGN KEY (appointment_id) REFERENCES appointments (appointment_id)
	)`,
	`CREATE TABLE IF NOT EXISTS medical_records (
		record_id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER NOT NULL,
		doctor_id INTEGER NOT NULL,
		visit_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		symptoms TEXT DEFAULT '',
		diagnosis TEXT DEFAULT '',
		prescription TEXT DEFAULT '',
		lab_tests TEXT DEFAULT '',
		follow_up_date TEXT,
		notes TEXT DEFAULT '',
		FOREIGN KEY (patient_id) REFERENCES patients (patient_id),
		FOREIGN KEY (doctor_id) REFERENCES doctors (doctor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_slot
		ON appointments (doctor_id, appointment_date, appointment_time)`,
	`CREATE INDEX IF NOT EXISTS idx_billing_patient ON billing (patient_id)`,
}

// Provision creates every table if absent. It never drops or alters existing
// tables and is safe to run on every process start.
func (s *Store) Provision(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.Mutate(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedDefaultAdmin inserts the bootstrap administrator account if no account
// with the default username exists. Idempotent; reports whether the default
// digest is (still) in place so callers can warn about the unrotated
// credential.
func (s *Store) SeedDefaultAdmin(ctx context.Context, digest string) (bool, error) {
	var usingDefault bool
	err := s.Transact(ctx, func(tx *sqlx.Tx) error {
		var existing string
		err := tx.GetContext(ctx, &existing,
			`SELECT password_digest FROM users WHERE username = ?`, DefaultAdminUsername)
		if err == nil {
			usingDefault = existing == digest
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return persistence(err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (username, password_digest, role, full_name, email, is_active, created_at)
			 VALUES (?, ?, 'admin', ?, ?, 1, ?)`,
			DefaultAdminUsername, digest, defaultAdminFullName, defaultAdminEmail, time.Now().UTC())
		if err != nil {
			return persistence(err)
		}
		usingDefault = true
		return nil
	})
	return usingDefault, err
}
