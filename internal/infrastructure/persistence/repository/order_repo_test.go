package repository

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/fieldops/po-tracker/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	if err := migrator.RunMigrations(filepath.Join("..", "..", "..", "..", "migrations")); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

func mustExec(t *testing.T, db *database.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec failed: %v\n%s", err, query)
	}
}

func TestOrderRepository_ListAvailableForGrouping(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db.DB, zap.NewNop())

	mustExec(t, db, `INSERT INTO users (id, email) VALUES ('user-1', 'jordan@example.com')`)
	mustExec(t, db, `INSERT INTO vendors (id, name) VALUES ('vendor-1', 'Acme Supply')`)
	mustExec(t, db, `INSERT INTO po_groups (id, po_number) VALUES ('group-1', 'PO-1001')`)

	insertOrder := `
		INSERT INTO orders (id, order_number, vendor_id, description, status, ordered_by_id, po_group_id, approved_at)
		VALUES (?, ?, 'vendor-1', 'parts', ?, 'user-1', ?, ?)
	`
	mustExec(t, db, insertOrder, "order-early", "ORD-20260829-0001", "approved", nil, "2026-08-29 10:00:00")
	mustExec(t, db, insertOrder, "order-late", "ORD-20260831-0001", "approved", nil, "2026-08-31 10:00:00")
	mustExec(t, db, insertOrder, "order-paid", "ORD-20260830-0001", "paid", nil, "2026-08-30 10:00:00")
	mustExec(t, db, insertOrder, "order-grouped", "ORD-20260828-0001", "approved", "group-1", "2026-08-28 10:00:00")
	mustExec(t, db, insertOrder, "order-pending", "ORD-20260827-0001", "pending", nil, nil)

	orders, err := repo.ListAvailableForGrouping(context.Background())
	if err != nil {
		t.Fatalf("ListAvailableForGrouping() failed: %v", err)
	}

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	// Grouped and unapproved orders are excluded; the rest come back in
	// approval order, newest first.
	want := []string{"order-late", "order-paid", "order-early"}
	if len(ids) != len(want) {
		t.Fatalf("ListAvailableForGrouping() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ListAvailableForGrouping()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
