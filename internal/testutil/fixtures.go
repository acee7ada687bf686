package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
)

// SeededCustomerID is inserted by the seed migration.
var SeededCustomerID = uuid.MustParse("5b0e4c8e-2f3a-4d7e-9a51-0c6f1e2d3a01")

func SeedCustomer(t *testing.T, db *sql.DB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	if _, err := db.Exec(`INSERT INTO customers (id, name) VALUES ($1, $2)`, id, name); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return id
}

// SeedAccount inserts an account at version 1 with balance equal to the
// initial deposit. balance is a decimal string such as "1.99".
func SeedAccount(t *testing.T, db *sql.DB, customerID uuid.UUID, balance string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO accounts (id, customer_id, balance, initial_deposit, version, created_at)
		 VALUES ($1, $2, $3, $3, 1, $4)`,
		id, customerID, balance, time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return id
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) string {
	t.Helper()

	var balance string
	if err := db.QueryRow(`SELECT balance::text FROM accounts WHERE id = $1`, accountID).Scan(&balance); err != nil {
		t.Fatalf("get account balance: %v", err)
	}
	return balance
}

func CountOperations(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(
		`SELECT count(*) FROM operations WHERE receiver_account_id = $1 OR sender_account_id = $1`,
		accountID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("count operations: %v", err)
	}
	return n
}
