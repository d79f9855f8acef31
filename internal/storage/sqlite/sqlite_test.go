package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()

	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

// createExpense stores an expense fronted by payer with one open share per debtor.
func createExpense(t *testing.T, store *SQLiteStore, payer string, createdAt int64, debts map[string]string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Title:        "Dinner",
		TotalAmount:  money.MustParse("100.00"),
		TaxAmount:    money.MustParse("0"),
		CreatedBy:    payer,
		Participants: []string{payer},
		Items: []models.ExpenseItem{
			{Name: "Food", Amount: money.MustParse("100.00"), IsShared: true},
		},
		CreatedAt: createdAt,
	}
	for debtor, amount := range debts {
		expense.Participants = append(expense.Participants, debtor)
		expense.Shares = append(expense.Shares, models.ExpenseShare{
			Participant: debtor,
			Amount:      money.MustParse(amount),
		})
	}

	err := store.InTx(context.Background(), func(tx storage.Tx) error {
		return tx.CreateExpense(context.Background(), expense)
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return expense
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	t.Run("GetUserByEmail finds user", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.DisplayName != "Alice" {
			t.Errorf("Unexpected user: %+v", got)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound by email, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound by ID, got %v", err)
		}
	})

	t.Run("duplicate email returns ErrDuplicate", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("GetUsersByIDs omits missing users", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "missing"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}
		if users[bob.ID].Email != "bob@example.com" {
			t.Errorf("Unexpected user for bob: %+v", users[bob.ID])
		}

		empty, err := store.GetUsersByIDs(ctx, nil)
		if err != nil || len(empty) != 0 {
			t.Errorf("Expected empty map, got %v, %v", empty, err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	carol := createUser(t, store, "carol@example.com", "Carol")

	t.Run("CreateExpense round trip keeps exact amounts", func(t *testing.T) {
		expense := &models.Expense{
			Title:        "Pizza night",
			Description:  "Friday",
			TotalAmount:  money.MustParse("30.00"),
			TaxAmount:    money.MustParse("3.00"),
			CreatedBy:    alice.ID,
			Participants: []string{alice.ID, bob.ID, carol.ID},
			Items: []models.ExpenseItem{
				{Name: "Pizza", Amount: money.MustParse("25.00"), IsShared: true},
				{Name: "Beer", Amount: money.MustParse("5.00"), AssignedTo: bob.ID},
			},
			Shares: []models.ExpenseShare{
				{Participant: bob.ID, Amount: money.MustParse("14.33")},
				{Participant: carol.ID, Amount: money.MustParse("9.33")},
			},
		}

		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.CreateExpense(ctx, expense)
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" || expense.CreatedAt == 0 {
			t.Fatal("Expected ID and CreatedAt to be assigned")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Title != "Pizza night" || got.Description != "Friday" {
			t.Errorf("Unexpected metadata: %q %q", got.Title, got.Description)
		}
		if !got.TotalAmount.Equal(money.MustParse("30.00")) || !got.TaxAmount.Equal(money.MustParse("3.00")) {
			t.Errorf("Unexpected amounts: total=%s tax=%s", got.TotalAmount, got.TaxAmount)
		}
		if len(got.Participants) != 3 || got.Participants[0] != alice.ID {
			t.Errorf("Unexpected participants: %v", got.Participants)
		}
		if len(got.Items) != 2 || got.Items[1].AssignedTo != bob.ID || got.Items[1].IsShared {
			t.Errorf("Unexpected items: %+v", got.Items)
		}
		if len(got.Shares) != 2 {
			t.Fatalf("Expected 2 shares, got %d", len(got.Shares))
		}
		if !got.Shares[0].Amount.Equal(money.MustParse("14.33")) || got.Shares[0].Version != 1 {
			t.Errorf("Unexpected share: %+v", got.Shares[0])
		}
	})

	t.Run("GetExpense returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetExpense(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("failed transaction leaves nothing behind", func(t *testing.T) {
		expense := &models.Expense{
			Title:        "Ghost",
			TotalAmount:  money.MustParse("10.00"),
			CreatedBy:    alice.ID,
			Participants: []string{alice.ID, "no-such-user"},
		}
		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.CreateExpense(ctx, expense)
		})
		if err == nil {
			t.Fatal("Expected foreign key failure")
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected rolled back expense to be missing, got %v", err)
		}
	})

	t.Run("listing by creator, participant and pair", func(t *testing.T) {
		createExpense(t, store, bob.ID, 2000, map[string]string{carol.ID: "5.00"})

		mine, err := store.ListExpensesCreatedBy(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListExpensesCreatedBy failed: %v", err)
		}
		if len(mine) != 1 {
			t.Errorf("Expected 1 expense created by bob, got %d", len(mine))
		}

		all, err := store.ListExpensesForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListExpensesForUser failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 expenses for bob, got %d", len(all))
		}

		between, err := store.ListExpensesBetween(ctx, alice.ID, carol.ID)
		if err != nil {
			t.Fatalf("ListExpensesBetween failed: %v", err)
		}
		if len(between) != 1 || between[0].Title != "Pizza night" {
			t.Errorf("Unexpected expenses between alice and carol: %d", len(between))
		}
	})

	t.Run("UpdateExpenseDetails changes metadata only", func(t *testing.T) {
		expense := createExpense(t, store, alice.ID, 3000, map[string]string{bob.ID: "50.00"})

		if err := store.UpdateExpenseDetails(ctx, expense.ID, "Renamed", "New notes", 4000); err != nil {
			t.Fatalf("UpdateExpenseDetails failed: %v", err)
		}
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Title != "Renamed" || got.Description != "New notes" {
			t.Errorf("Metadata not updated: %q %q", got.Title, got.Description)
		}
		if got.UpdatedAt != 4000 || got.CreatedAt != 3000 {
			t.Errorf("Unexpected timestamps: created=%d updated=%d", got.CreatedAt, got.UpdatedAt)
		}
		if !got.Shares[0].Amount.Equal(money.MustParse("50.00")) {
			t.Errorf("Share amount changed: %s", got.Shares[0].Amount)
		}

		if err := store.UpdateExpenseDetails(ctx, "missing", "x", "", 4000); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSettlementStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	newer := createExpense(t, store, alice.ID, 2000, map[string]string{bob.ID: "20.00"})
	older := createExpense(t, store, alice.ID, 1000, map[string]string{bob.ID: "10.00"})
	createExpense(t, store, bob.ID, 500, map[string]string{alice.ID: "7.00"})

	t.Run("candidates are oldest expense first", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			shares, err := tx.ListSettlementCandidates(ctx, bob.ID, alice.ID)
			if err != nil {
				return err
			}
			if len(shares) != 2 {
				t.Fatalf("Expected 2 candidates, got %d", len(shares))
			}
			if shares[0].ExpenseID != older.ID || shares[1].ExpenseID != newer.ID {
				t.Errorf("Unexpected order: %s, %s", shares[0].ExpenseID, shares[1].ExpenseID)
			}
			if shares[0].ExpenseCreatedAt != 1000 {
				t.Errorf("Expected expense timestamp 1000, got %d", shares[0].ExpenseCreatedAt)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		var stale models.ExpenseShare
		err := store.InTx(ctx, func(tx storage.Tx) error {
			shares, err := tx.ListSettlementCandidates(ctx, bob.ID, alice.ID)
			if err != nil {
				return err
			}
			stale = shares[0]

			fresh := shares[0]
			fresh.Amount = money.MustParse("9.00")
			if err := tx.UpdateShare(ctx, &fresh); err != nil {
				return err
			}
			if fresh.Version != 2 {
				t.Errorf("Expected version 2, got %d", fresh.Version)
			}

			stale.Amount = money.MustParse("1.00")
			return tx.UpdateShare(ctx, &stale)
		})
		if !errors.Is(err, storage.ErrConcurrentModification) {
			t.Fatalf("Expected ErrConcurrentModification, got %v", err)
		}

		got, err := store.GetExpense(ctx, older.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Shares[0].Amount.Equal(money.MustParse("10.00")) {
			t.Errorf("Expected rollback to keep 10.00, got %s", got.Shares[0].Amount)
		}
	})

	t.Run("payment with split row", func(t *testing.T) {
		payment := &models.Payment{FromUser: bob.ID, ToUser: alice.ID, Amount: money.MustParse("4.00"), Notes: "cash"}

		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.CreatePayment(ctx, payment); err != nil {
				return err
			}
			shares, err := tx.ListSettlementCandidates(ctx, bob.ID, alice.ID)
			if err != nil {
				return err
			}
			open := shares[0]
			open.Amount = money.MustParse("6.00")
			if err := tx.UpdateShare(ctx, &open); err != nil {
				return err
			}
			return tx.CreateShare(ctx, &models.ExpenseShare{
				ExpenseID:   open.ExpenseID,
				Participant: bob.ID,
				Amount:      money.MustParse("4.00"),
				Settled:     true,
				SettledBy:   payment.ID,
			})
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}

		got, err := store.GetExpense(ctx, older.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.Shares) != 2 {
			t.Fatalf("Expected 2 shares after split, got %d", len(got.Shares))
		}
		if !got.Shares[1].Settled || got.Shares[1].SettledBy != payment.ID {
			t.Errorf("Unexpected split row: %+v", got.Shares[1])
		}

		payments, err := store.ListPaymentsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPaymentsForUser failed: %v", err)
		}
		if len(payments) != 1 || payments[0].Notes != "cash" || !payments[0].Amount.Equal(money.MustParse("4.00")) {
			t.Errorf("Unexpected payments: %+v", payments)
		}
	})

	t.Run("open obligations and counterparties", func(t *testing.T) {
		obs, err := store.ListOpenObligations(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListOpenObligations failed: %v", err)
		}
		// 6.00 + 20.00 owed to alice, 7.00 owed by alice; the settled split is excluded.
		if len(obs) != 3 {
			t.Fatalf("Expected 3 open obligations, got %d", len(obs))
		}

		ids, err := store.ListCounterparties(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListCounterparties failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != bob.ID {
			t.Errorf("Expected [bob], got %v", ids)
		}
	})

	t.Run("share views carry derived roles", func(t *testing.T) {
		views, err := store.ListSharesForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListSharesForUser failed: %v", err)
		}
		if len(views) != 4 {
			t.Fatalf("Expected 4 share views, got %d", len(views))
		}
		for _, v := range views {
			want := models.RoleDebtor
			if v.Creditor == alice.ID {
				want = models.RoleCreditor
			}
			if v.Role != want {
				t.Errorf("Share %s: role %s, want %s", v.Share.ID, v.Role, want)
			}
			if v.ExpenseTitle != "Dinner" {
				t.Errorf("Unexpected title %q", v.ExpenseTitle)
			}
		}
	})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	createUser(t, first, "alice@example.com", "Alice")
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	if _, err := second.GetUserByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Errorf("Expected user to survive reopen: %v", err)
	}
}

func TestSearchUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createUser(t, store, "zed@example.com", "Bob Builder")
	alice := createUser(t, store, "alice@example.com", "Alice")
	createUser(t, store, "carol@work.example", "Carol")

	all, err := store.SearchUsers(ctx, "", 10)
	if err != nil {
		t.Fatalf("SearchUsers failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != alice.ID || all[2].DisplayName != "Carol" {
		t.Errorf("Expected all users ordered by display name, got %d", len(all))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"bob", []string{"Bob Builder"}},
		{"ZED@", []string{"Bob Builder"}},
		{"work.example", []string{"Carol"}},
		{"example", []string{"Alice", "Bob Builder", "Carol"}},
		{"%", nil},
		{"nobody", nil},
	}
	for _, tt := range tests {
		got, err := store.SearchUsers(ctx, tt.query, 10)
		if err != nil {
			t.Fatalf("SearchUsers(%q) failed: %v", tt.query, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("SearchUsers(%q) returned %d users, want %d", tt.query, len(got), len(tt.want))
			continue
		}
		for i, u := range got {
			if u.DisplayName != tt.want[i] {
				t.Errorf("SearchUsers(%q)[%d] = %q, want %q", tt.query, i, u.DisplayName, tt.want[i])
			}
		}
	}

	limited, err := store.SearchUsers(ctx, "", 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("Expected 2 users with limit, got %d, %v", len(limited), err)
	}
}

func TestListExpensesBetweenIgnoresThirdPayer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	carol := createUser(t, store, "carol@example.com", "Carol")

	createExpense(t, store, carol.ID, 1000, map[string]string{alice.ID: "10.00", bob.ID: "10.00"})
	byAlice := createExpense(t, store, alice.ID, 2000, map[string]string{bob.ID: "5.00"})
	byBob := createExpense(t, store, bob.ID, 3000, map[string]string{alice.ID: "7.00"})

	for _, pair := range [][2]string{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		between, err := store.ListExpensesBetween(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("ListExpensesBetween failed: %v", err)
		}
		if len(between) != 2 {
			t.Fatalf("Expected 2 expenses between alice and bob, got %d", len(between))
		}
		if between[0].ID != byBob.ID || between[1].ID != byAlice.ID {
			t.Errorf("Unexpected expenses: %s, %s", between[0].ID, between[1].ID)
		}
	}
}

func TestCreateExpenseRejectsOverflowingAmounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	expense := &models.Expense{
		Title:        "Too big",
		TotalAmount:  money.MustParse("368934881474191034.32"),
		CreatedBy:    alice.ID,
		Participants: []string{alice.ID, bob.ID},
	}
	err := store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreateExpense(ctx, expense)
	})
	if !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("Expected ErrInvalidAmount, got %v", err)
	}
	if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected nothing stored, got %v", err)
	}
}

func TestStoreClockStampsMissingTimestamps(t *testing.T) {
	fixed := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store, err := New(filepath.Join(t.TempDir(), "test.db"), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	expense := createExpense(t, store, alice.ID, 0, map[string]string{bob.ID: "50.00"})
	if expense.CreatedAt != fixed.UnixMilli() || expense.UpdatedAt != fixed.UnixMilli() {
		t.Errorf("Unexpected expense timestamps: created=%d updated=%d", expense.CreatedAt, expense.UpdatedAt)
	}

	payment := &models.Payment{FromUser: bob.ID, ToUser: alice.ID, Amount: money.MustParse("5.00")}
	err = store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreatePayment(ctx, payment)
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.CreatedAt != fixed.UnixMilli() {
		t.Errorf("Unexpected payment timestamp: %d", payment.CreatedAt)
	}

	if err := store.UpdateExpenseDetails(ctx, expense.ID, "Renamed", "", 0); err != nil {
		t.Fatalf("UpdateExpenseDetails failed: %v", err)
	}
	got, err := store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got.UpdatedAt != fixed.UnixMilli() {
		t.Errorf("Unexpected updated_at: %d", got.UpdatedAt)
	}
}
