package store

import (
	"context"
	"testing"

	"github.com/ziadkadry99/shopchat/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// seedCatalog populates a small catalog: three products with differing
// sales counts, one order with two items, and available inventory.
func seedCatalog(t *testing.T, database *db.DB) {
	t.Helper()
	ctx := context.Background()
	loader := NewLoader(database)

	productIDs, err := loader.InsertProducts(ctx, []ProductRow{
		{ProductID: "p1", Name: "Blue Denim Jacket", Brand: "Levis", Category: "Jackets", Department: "Men", SKU: "SKU-1", Cost: 20, RetailPrice: 49.99},
		{ProductID: "p2", Name: "Classic White Tee", Brand: "Hanes", Category: "Tops", Department: "Women", SKU: "SKU-2", Cost: 3, RetailPrice: 9.99},
		{ProductID: "p3", Name: "Wool Scarf", Brand: "Acme", Category: "Accessories", Department: "Women", SKU: "SKU-3", Cost: 5, RetailPrice: 19.99},
	})
	if err != nil {
		t.Fatalf("InsertProducts: %v", err)
	}

	userIDs, err := loader.InsertUsers(ctx, []UserRow{
		{UserID: "user_1", Email: "alice@example.com", PasswordHash: "x", Name: "Alice Smith"},
	})
	if err != nil {
		t.Fatalf("InsertUsers: %v", err)
	}

	orderIDs, err := loader.InsertOrders(ctx, []OrderRow{
		{OrderID: "12345", UserID: userIDs["user_1"], Status: "shipped", NumOfItem: 2, TotalAmount: 59.98},
		{OrderID: "12346", UserID: userIDs["user_1"], Status: "pending", NumOfItem: 1, TotalAmount: 9.99},
	})
	if err != nil {
		t.Fatalf("InsertOrders: %v", err)
	}

	// p1 sold three times, p2 twice, p3 never.
	items := []OrderItemRow{
		{OrderItemID: "oi1", OrderRowID: orderIDs["12345"], UserID: userIDs["user_1"], ProductRowID: productIDs["p1"], Status: "shipped", Quantity: 1, UnitPrice: 49.99, TotalPrice: 49.99},
		{OrderItemID: "oi2", OrderRowID: orderIDs["12345"], UserID: userIDs["user_1"], ProductRowID: productIDs["p2"], Status: "shipped", Quantity: 1, UnitPrice: 9.99, TotalPrice: 9.99},
		{OrderItemID: "oi3", OrderRowID: orderIDs["12346"], UserID: userIDs["user_1"], ProductRowID: productIDs["p1"], Status: "pending", Quantity: 1, UnitPrice: 49.99, TotalPrice: 49.99},
		{OrderItemID: "oi4", OrderRowID: orderIDs["12346"], UserID: userIDs["user_1"], ProductRowID: productIDs["p1"], Status: "pending", Quantity: 1, UnitPrice: 49.99, TotalPrice: 49.99},
		{OrderItemID: "oi5", OrderRowID: orderIDs["12346"], UserID: userIDs["user_1"], ProductRowID: productIDs["p2"], Status: "pending", Quantity: 1, UnitPrice: 9.99, TotalPrice: 9.99},
	}
	if err := loader.InsertOrderItems(ctx, items); err != nil {
		t.Fatalf("InsertOrderItems: %v", err)
	}

	inventory := []InventoryItemRow{
		{InventoryID: "inv1", ProductRowID: productIDs["p1"], Cost: 20, Status: "available"},
		{InventoryID: "inv2", ProductRowID: productIDs["p1"], Cost: 20, Status: "available"},
		{InventoryID: "inv3", ProductRowID: productIDs["p1"], Cost: 20, Status: "sold"},
		{InventoryID: "inv4", ProductRowID: productIDs["p2"], Cost: 3, Status: "available"},
	}
	if err := loader.InsertInventoryItems(ctx, inventory); err != nil {
		t.Fatalf("InsertInventoryItems: %v", err)
	}
}

func TestInsertOrdersRejectsUnknownStatus(t *testing.T) {
	database := setupTestDB(t)
	loader := NewLoader(database)
	ctx := context.Background()

	userIDs, err := loader.InsertUsers(ctx, []UserRow{
		{UserID: "user_1", Email: "alice@example.com", PasswordHash: "x", Name: "Alice Smith"},
	})
	if err != nil {
		t.Fatalf("InsertUsers: %v", err)
	}

	// The schema enum is lowercase; raw dataset spellings must be
	// normalized before they reach the loader.
	_, err = loader.InsertOrders(ctx, []OrderRow{
		{OrderID: "12347", UserID: userIDs["user_1"], Status: "Shipped", NumOfItem: 1},
	})
	if err == nil {
		t.Error("expected status check violation for capitalized status")
	}
}
