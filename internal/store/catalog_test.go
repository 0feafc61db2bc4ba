package store

import (
	"context"
	"testing"
)

func TestTopSoldProducts(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)

	top, err := catalog.TopSoldProducts(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopSoldProducts: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 products with sales, got %d", len(top))
	}
	if top[0].Name != "Blue Denim Jacket" || top[0].SalesCount != 3 {
		t.Errorf("expected Blue Denim Jacket with 3 sales first, got %s (%d)", top[0].Name, top[0].SalesCount)
	}
	if top[1].Name != "Classic White Tee" || top[1].SalesCount != 2 {
		t.Errorf("expected Classic White Tee with 2 sales second, got %s (%d)", top[1].Name, top[1].SalesCount)
	}
}

func TestOrderStatus(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)
	ctx := context.Background()

	order, err := catalog.OrderStatus(ctx, "12345")
	if err != nil {
		t.Fatalf("OrderStatus: %v", err)
	}
	if order == nil {
		t.Fatal("expected order, got nil")
	}
	if order.Status != "shipped" {
		t.Errorf("expected status shipped, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Items[0].ProductName != "Blue Denim Jacket" {
		t.Errorf("expected first item Blue Denim Jacket, got %s", order.Items[0].ProductName)
	}

	missing, err := catalog.OrderStatus(ctx, "99999")
	if err != nil {
		t.Fatalf("OrderStatus missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown order")
	}
}

func TestProductStock(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)
	ctx := context.Background()

	// Partial, case-insensitive match; only 'available' units counted.
	stock, err := catalog.ProductStock(ctx, "blue denim")
	if err != nil {
		t.Fatalf("ProductStock: %v", err)
	}
	if stock == nil {
		t.Fatal("expected product, got nil")
	}
	if stock.Name != "Blue Denim Jacket" {
		t.Errorf("expected Blue Denim Jacket, got %s", stock.Name)
	}
	if stock.AvailableStock != 2 {
		t.Errorf("expected 2 available, got %d", stock.AvailableStock)
	}

	missing, err := catalog.ProductStock(ctx, "nonexistent gadget")
	if err != nil {
		t.Fatalf("ProductStock missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown product")
	}
}

func TestSearchProducts(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)
	ctx := context.Background()

	// Department match.
	results, err := catalog.SearchProducts(ctx, "women", 10)
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for department match, got %d", len(results))
	}

	// Limit is honored.
	limited, err := catalog.SearchProducts(ctx, "women", 1)
	if err != nil {
		t.Fatalf("SearchProducts limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 result with limit 1, got %d", len(limited))
	}
}

func TestGeneralStats(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)

	stats, err := catalog.GeneralStats(context.Background())
	if err != nil {
		t.Fatalf("GeneralStats: %v", err)
	}
	if stats.TotalProducts != 3 {
		t.Errorf("expected 3 products, got %d", stats.TotalProducts)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("expected 2 orders, got %d", stats.TotalOrders)
	}
	if stats.AvailableStock != 3 {
		t.Errorf("expected 3 available units, got %d", stats.AvailableStock)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("expected 1 user, got %d", stats.TotalUsers)
	}
}

func TestProductCategoriesAndBrands(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)
	ctx := context.Background()

	cats, err := catalog.ProductCategories(ctx)
	if err != nil {
		t.Fatalf("ProductCategories: %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("expected 3 categories, got %d", len(cats))
	}

	brands, err := catalog.TopBrands(ctx, 2)
	if err != nil {
		t.Fatalf("TopBrands: %v", err)
	}
	if len(brands) != 2 {
		t.Errorf("expected 2 brands with limit 2, got %d", len(brands))
	}
}

func TestRecentOrders(t *testing.T) {
	database := setupTestDB(t)
	seedCatalog(t, database)
	catalog := NewCatalogStore(database)

	orders, err := catalog.RecentOrders(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentOrders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if len(o.Items) == 0 {
			t.Errorf("order %s has no items", o.OrderID)
		}
	}
}
