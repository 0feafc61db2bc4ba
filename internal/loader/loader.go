package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ziadkadry99/shopchat/internal/progress"
	"github.com/ziadkadry99/shopchat/internal/store"
)

// Row caps keep the import fast on the full retail dataset. The source
// files run into the millions of rows; the chat service only needs a
// representative sample.
const (
	MaxUsers          = 1000
	MaxOrders         = 5000
	MaxOrderItems     = 10000
	MaxInventoryItems = 10000
)

// DefaultPasswordHash is the bcrypt hash every imported user starts with
// (password123). Imported accounts are demo accounts.
const DefaultPasswordHash = "$2a$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewdBPj4tbQJ6Kz6O"

// Summary reports how many rows each table received.
type Summary struct {
	DistributionCenters int
	Products            int
	Users               int
	Orders              int
	OrderItems          int
	InventoryItems      int
}

// Importer reads the retail CSV dataset into the catalog tables.
type Importer struct {
	loader   *store.Loader
	reporter progress.Reporter
}

// NewImporter creates an importer writing through the given bulk loader.
func NewImporter(loader *store.Loader, reporter progress.Reporter) *Importer {
	return &Importer{loader: loader, reporter: reporter}
}

// Run imports the six CSV files from dir. Files are loaded in dependency
// order so foreign keys resolve: centers, products, users, orders, order
// items, inventory.
func (im *Importer) Run(ctx context.Context, dir string) (summary *Summary, err error) {
	im.reporter.Begin(6)
	defer func() { im.reporter.End(err) }()

	summary = &Summary{}

	centers, err := im.readDistributionCenters(filepath.Join(dir, "distribution_centers.csv"))
	if err != nil {
		return nil, err
	}
	if err := im.loader.InsertDistributionCenters(ctx, centers); err != nil {
		return nil, err
	}
	summary.DistributionCenters = len(centers)
	im.reporter.Advance("distribution centers", len(centers))

	products, err := im.readProducts(filepath.Join(dir, "products.csv"))
	if err != nil {
		return nil, err
	}
	productIDs, err := im.loader.InsertProducts(ctx, products)
	if err != nil {
		return nil, err
	}
	summary.Products = len(products)
	im.reporter.Advance("products", len(products))

	users, err := im.readUsers(filepath.Join(dir, "users.csv"))
	if err != nil {
		return nil, err
	}
	userIDs, err := im.loader.InsertUsers(ctx, users)
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)
	im.reporter.Advance("users", len(users))

	orders, err := im.readOrders(filepath.Join(dir, "orders.csv"), userIDs)
	if err != nil {
		return nil, err
	}
	orderIDs, err := im.loader.InsertOrders(ctx, orders)
	if err != nil {
		return nil, err
	}
	summary.Orders = len(orders)
	im.reporter.Advance("orders", len(orders))

	items, err := im.readOrderItems(filepath.Join(dir, "order_items.csv"), orderIDs, userIDs, productIDs)
	if err != nil {
		return nil, err
	}
	if err := im.loader.InsertOrderItems(ctx, items); err != nil {
		return nil, err
	}
	summary.OrderItems = len(items)
	im.reporter.Advance("order items", len(items))

	inventory, err := im.readInventoryItems(filepath.Join(dir, "inventory_items.csv"), productIDs)
	if err != nil {
		return nil, err
	}
	if err := im.loader.InsertInventoryItems(ctx, inventory); err != nil {
		return nil, err
	}
	summary.InventoryItems = len(inventory)
	im.reporter.Advance("inventory items", len(inventory))

	return summary, nil
}

// forEachRecord streams a CSV file, handing each record to fn as a
// column-name map. fn returns false to stop early (row cap reached).
func forEachRecord(path string, fn func(rec map[string]string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				rec[col] = record[i]
			}
		}
		if !fn(rec) {
			return nil
		}
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// statusAliases maps dataset status spellings onto the order status
// enum. The retail CSVs say "Complete" where the schema says delivered.
var statusAliases = map[string]string{
	"complete": "delivered",
}

// normalizeStatus lowercases a dataset order status and resolves
// aliases. Anything outside the enum falls back to pending, the
// schema's default.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if mapped, ok := statusAliases[s]; ok {
		return mapped
	}
	switch s {
	case "pending", "processing", "shipped", "delivered", "returned", "cancelled":
		return s
	}
	return "pending"
}

// parseTime accepts the timestamp formats found in the dataset. Empty or
// unparseable values mean the event has not happened.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 MST", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func (im *Importer) readDistributionCenters(path string) ([]store.DistributionCenterRow, error) {
	var rows []store.DistributionCenterRow
	err := forEachRecord(path, func(rec map[string]string) bool {
		rows = append(rows, store.DistributionCenterRow{
			CenterID:  rec["id"],
			Name:      rec["name"],
			Latitude:  parseFloat(rec["latitude"]),
			Longitude: parseFloat(rec["longitude"]),
		})
		return true
	})
	return rows, err
}

func (im *Importer) readProducts(path string) ([]store.ProductRow, error) {
	var rows []store.ProductRow
	err := forEachRecord(path, func(rec map[string]string) bool {
		rows = append(rows, store.ProductRow{
			ProductID:            rec["id"],
			Name:                 rec["name"],
			Brand:                rec["brand"],
			Category:             rec["category"],
			Department:           rec["department"],
			SKU:                  rec["sku"],
			Cost:                 parseFloat(rec["cost"]),
			RetailPrice:          parseFloat(rec["retail_price"]),
			DistributionCenterID: int64(parseInt(rec["distribution_center_id"])),
		})
		return true
	})
	return rows, err
}

func (im *Importer) readUsers(path string) ([]store.UserRow, error) {
	var rows []store.UserRow
	seenEmails := make(map[string]bool)
	err := forEachRecord(path, func(rec map[string]string) bool {
		email := rec["email"]
		if email == "" || seenEmails[email] {
			return true
		}
		seenEmails[email] = true
		rows = append(rows, store.UserRow{
			UserID:       "user_" + rec["id"],
			Email:        email,
			PasswordHash: DefaultPasswordHash,
			Name:         strings.TrimSpace(rec["first_name"] + " " + rec["last_name"]),
		})
		return len(rows) < MaxUsers
	})
	return rows, err
}

func (im *Importer) readOrders(path string, userIDs map[string]int64) ([]store.OrderRow, error) {
	var rows []store.OrderRow
	err := forEachRecord(path, func(rec map[string]string) bool {
		userRowID, ok := userIDs["user_"+rec["user_id"]]
		if !ok {
			return true
		}
		created := parseTime(rec["created_at"])
		row := store.OrderRow{
			OrderID:     rec["order_id"],
			UserID:      userRowID,
			Status:      normalizeStatus(rec["status"]),
			NumOfItem:   parseInt(rec["num_of_item"]),
			ShippedAt:   parseTime(rec["shipped_at"]),
			DeliveredAt: parseTime(rec["delivered_at"]),
			ReturnedAt:  parseTime(rec["returned_at"]),
		}
		if created != nil {
			row.CreatedAt = *created
		}
		rows = append(rows, row)
		return len(rows) < MaxOrders
	})
	return rows, err
}

func (im *Importer) readOrderItems(path string, orderIDs, userIDs, productIDs map[string]int64) ([]store.OrderItemRow, error) {
	var rows []store.OrderItemRow
	err := forEachRecord(path, func(rec map[string]string) bool {
		orderRowID, ok := orderIDs[rec["order_id"]]
		if !ok {
			return true
		}
		userRowID, ok := userIDs["user_"+rec["user_id"]]
		if !ok {
			return true
		}
		productRowID, ok := productIDs[rec["product_id"]]
		if !ok {
			return true
		}
		rows = append(rows, store.OrderItemRow{
			OrderItemID:  rec["id"],
			OrderRowID:   orderRowID,
			UserID:       userRowID,
			ProductRowID: productRowID,
			Status:       normalizeStatus(rec["status"]),
			Quantity:     1,
			UnitPrice:    parseFloat(rec["sale_price"]),
			TotalPrice:   parseFloat(rec["sale_price"]),
		})
		return len(rows) < MaxOrderItems
	})
	return rows, err
}

func (im *Importer) readInventoryItems(path string, productIDs map[string]int64) ([]store.InventoryItemRow, error) {
	var rows []store.InventoryItemRow
	err := forEachRecord(path, func(rec map[string]string) bool {
		productRowID, ok := productIDs[rec["product_id"]]
		if !ok {
			return true
		}
		status := "available"
		if strings.TrimSpace(rec["sold_at"]) != "" {
			status = "sold"
		}
		rows = append(rows, store.InventoryItemRow{
			InventoryID:  rec["id"],
			ProductRowID: productRowID,
			Cost:         parseFloat(rec["cost"]),
			Status:       status,
		})
		return len(rows) < MaxInventoryItems
	})
	return rows, err
}
