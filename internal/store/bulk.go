package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/shopchat/internal/db"
)

// Bulk insert helpers used by the CSV loader and by test fixtures.
// Each batch runs in a single transaction.

// DistributionCenterRow is one distribution center to insert.
type DistributionCenterRow struct {
	CenterID  string
	Name      string
	Latitude  float64
	Longitude float64
}

// ProductRow is one product to insert.
type ProductRow struct {
	ProductID            string
	Name                 string
	Brand                string
	Category             string
	Department           string
	SKU                  string
	Cost                 float64
	RetailPrice          float64
	DistributionCenterID int64
}

// UserRow is one user to insert.
type UserRow struct {
	UserID       string
	Email        string
	PasswordHash string
	Name         string
}

// OrderRow is one order to insert.
type OrderRow struct {
	OrderID     string
	UserID      int64
	Status      string
	NumOfItem   int
	TotalAmount float64
	CreatedAt   time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	ReturnedAt  *time.Time
}

// OrderItemRow is one order line item to insert. OrderRowID and
// ProductRowID reference the sqlite rowids, not the external ids.
type OrderItemRow struct {
	OrderItemID  string
	OrderRowID   int64
	UserID       int64
	ProductRowID int64
	Status       string
	Quantity     int
	UnitPrice    float64
	TotalPrice   float64
}

// InventoryItemRow is one inventory unit to insert.
type InventoryItemRow struct {
	InventoryID  string
	ProductRowID int64
	Cost         float64
	Status       string
}

// Loader performs bulk catalog inserts.
type Loader struct {
	db *db.DB
}

// NewLoader creates a bulk loader over the given database.
func NewLoader(database *db.DB) *Loader {
	return &Loader{db: database}
}

// InsertDistributionCenters inserts the given distribution centers.
func (l *Loader) InsertDistributionCenters(ctx context.Context, rows []DistributionCenterRow) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO distribution_centers (center_id, name, latitude, longitude) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.CenterID, r.Name, r.Latitude, r.Longitude); err != nil {
			return fmt.Errorf("inserting distribution center %s: %w", r.CenterID, err)
		}
	}
	return tx.Commit()
}

// InsertProducts inserts the given products and returns external
// product_id -> sqlite rowid, used to resolve foreign keys later.
func (l *Loader) InsertProducts(ctx context.Context, rows []ProductRow) (map[string]int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (product_id, name, brand, category, department, sku, cost, retail_price, distribution_center_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[string]int64, len(rows))
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.ProductID, r.Name, r.Brand, r.Category, r.Department, r.SKU, r.Cost, r.RetailPrice, r.DistributionCenterID)
		if err != nil {
			return nil, fmt.Errorf("inserting product %s: %w", r.ProductID, err)
		}
		rowID, _ := res.LastInsertId()
		ids[r.ProductID] = rowID
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertUsers inserts the given users and returns user_id -> sqlite rowid.
func (l *Loader) InsertUsers(ctx context.Context, rows []UserRow) (map[string]int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO users (user_id, email, password, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[string]int64, len(rows))
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.UserID, r.Email, r.PasswordHash, r.Name, now, now)
		if err != nil {
			return nil, fmt.Errorf("inserting user %s: %w", r.UserID, err)
		}
		rowID, _ := res.LastInsertId()
		ids[r.UserID] = rowID
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertOrders inserts the given orders and returns order_id -> sqlite rowid.
func (l *Loader) InsertOrders(ctx context.Context, rows []OrderRow) (map[string]int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO orders (order_id, user_id, status, num_of_item, total_amount, created_at, shipped_at, delivered_at, returned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[string]int64, len(rows))
	for _, r := range rows {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		res, err := stmt.ExecContext(ctx, r.OrderID, r.UserID, r.Status, r.NumOfItem, r.TotalAmount, createdAt, r.ShippedAt, r.DeliveredAt, r.ReturnedAt)
		if err != nil {
			return nil, fmt.Errorf("inserting order %s: %w", r.OrderID, err)
		}
		rowID, _ := res.LastInsertId()
		ids[r.OrderID] = rowID
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertOrderItems inserts the given order line items.
func (l *Loader) InsertOrderItems(ctx context.Context, rows []OrderItemRow) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO order_items (order_item_id, order_id, user_id, product_id, status, quantity, unit_price, total_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.OrderItemID, r.OrderRowID, r.UserID, r.ProductRowID, r.Status, r.Quantity, r.UnitPrice, r.TotalPrice); err != nil {
			return fmt.Errorf("inserting order item %s: %w", r.OrderItemID, err)
		}
	}
	return tx.Commit()
}

// InsertInventoryItems inserts the given inventory units.
func (l *Loader) InsertInventoryItems(ctx context.Context, rows []InventoryItemRow) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO inventory_items (inventory_id, product_id, cost, status) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.InventoryID, r.ProductRowID, r.Cost, r.Status); err != nil {
			return fmt.Errorf("inserting inventory item %s: %w", r.InventoryID, err)
		}
	}
	return tx.Commit()
}
