package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ziadkadry99/shopchat/internal/db"
)

// CatalogStore provides read access to the product catalog, orders and
// inventory. All queries are scoped to what the chat pipeline needs.
type CatalogStore struct {
	db *db.DB
}

// NewCatalogStore creates a new catalog store.
func NewCatalogStore(database *db.DB) *CatalogStore {
	return &CatalogStore{db: database}
}

// TopSoldProducts returns the n products with the most order line items,
// descending by sales count. Ties keep their storage order.
func (s *CatalogStore) TopSoldProducts(ctx context.Context, n int) ([]ProductSales, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.product_id, p.name, p.brand, p.category, p.retail_price, COUNT(oi.id) AS sales_count
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 GROUP BY oi.product_id
		 ORDER BY sales_count DESC
		 LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying top sold products: %w", err)
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Brand, &p.Category, &p.Price, &p.SalesCount); err != nil {
			return nil, fmt.Errorf("scanning product sales: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OrderStatus returns an order with its line items and product names.
// Returns nil if the order does not exist.
func (s *CatalogStore) OrderStatus(ctx context.Context, orderID string) (*OrderInfo, error) {
	var o OrderInfo
	var rowID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, status, created_at, shipped_at, delivered_at, returned_at, num_of_item, total_amount
		 FROM orders WHERE order_id = ?`, orderID,
	).Scan(&rowID, &o.OrderID, &o.Status, &o.CreatedAt, &o.ShippedAt, &o.DeliveredAt, &o.ReturnedAt, &o.NumOfItem, &o.TotalAmount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}

	items, err := s.orderItems(ctx, rowID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *CatalogStore) orderItems(ctx context.Context, orderRowID int64) ([]OrderItemInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name, p.brand, oi.status, oi.quantity, oi.unit_price
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ?
		 ORDER BY oi.id ASC`, orderRowID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var out []OrderItemInfo
	for rows.Next() {
		var it OrderItemInfo
		if err := rows.Scan(&it.ProductName, &it.ProductBrand, &it.Status, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ProductStock finds the first product whose name contains the given
// fragment (case-insensitive) and counts its available inventory.
// Returns nil if no product matches.
func (s *CatalogStore) ProductStock(ctx context.Context, fragment string) (*ProductStockInfo, error) {
	var p ProductStockInfo
	err := s.db.QueryRowContext(ctx,
		`SELECT p.product_id, p.name, p.brand, p.category, p.retail_price, p.sku,
		        (SELECT COUNT(*) FROM inventory_items i
		         WHERE i.product_id = p.id AND i.status = 'available')
		 FROM products p
		 WHERE LOWER(p.name) LIKE '%' || LOWER(?) || '%'
		 ORDER BY p.id ASC
		 LIMIT 1`, fragment,
	).Scan(&p.ProductID, &p.Name, &p.Brand, &p.Category, &p.RetailPrice, &p.SKU, &p.AvailableStock)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying product stock: %w", err)
	}
	return &p, nil
}

// SearchProducts matches the query (case-insensitive) against product
// name, brand, category and department, capped at limit results.
func (s *CatalogStore) SearchProducts(ctx context.Context, query string, limit int) ([]ProductListing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.product_id, p.name, p.brand, p.category, p.department, p.retail_price, p.sku,
		        (SELECT COUNT(*) FROM inventory_items i
		         WHERE i.product_id = p.id AND i.status = 'available')
		 FROM products p
		 WHERE LOWER(p.name) LIKE '%' || LOWER(?) || '%'
		    OR LOWER(p.brand) LIKE '%' || LOWER(?) || '%'
		    OR LOWER(p.category) LIKE '%' || LOWER(?) || '%'
		    OR LOWER(p.department) LIKE '%' || LOWER(?) || '%'
		 ORDER BY p.id ASC
		 LIMIT ?`, query, query, query, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	defer rows.Close()

	var out []ProductListing
	for rows.Next() {
		var p ProductListing
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Brand, &p.Category, &p.Department, &p.RetailPrice, &p.SKU, &p.AvailableStock); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GeneralStats returns store-wide counts used by the generic-info path.
func (s *CatalogStore) GeneralStats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM products`, &st.TotalProducts},
		{`SELECT COUNT(*) FROM orders`, &st.TotalOrders},
		{`SELECT COUNT(*) FROM inventory_items WHERE status = 'available'`, &st.AvailableStock},
		{`SELECT COUNT(*) FROM users`, &st.TotalUsers},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("querying stats: %w", err)
		}
	}
	return &st, nil
}

// ProductCategories returns all categories with their product counts,
// most populated first.
func (s *CatalogStore) ProductCategories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(id) AS product_count
		 FROM products GROUP BY category
		 ORDER BY product_count DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopBrands returns the n brands with the most products.
func (s *CatalogStore) TopBrands(ctx context.Context, n int) ([]BrandCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT brand, COUNT(id) AS product_count
		 FROM products GROUP BY brand
		 ORDER BY product_count DESC
		 LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying brands: %w", err)
	}
	defer rows.Close()

	var out []BrandCount
	for rows.Next() {
		var b BrandCount
		if err := rows.Scan(&b.Brand, &b.ProductCount); err != nil {
			return nil, fmt.Errorf("scanning brand: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RecentOrders returns the n most recently created orders with their items.
func (s *CatalogStore) RecentOrders(ctx context.Context, n int) ([]OrderInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, status, created_at, shipped_at, delivered_at, returned_at, num_of_item, total_amount
		 FROM orders ORDER BY created_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent orders: %w", err)
	}
	defer rows.Close()

	type orderRow struct {
		info  OrderInfo
		rowID int64
	}
	var ordersFound []orderRow
	for rows.Next() {
		var r orderRow
		if err := rows.Scan(&r.rowID, &r.info.OrderID, &r.info.Status, &r.info.CreatedAt, &r.info.ShippedAt, &r.info.DeliveredAt, &r.info.ReturnedAt, &r.info.NumOfItem, &r.info.TotalAmount); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		ordersFound = append(ordersFound, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]OrderInfo, 0, len(ordersFound))
	for _, r := range ordersFound {
		items, err := s.orderItems(ctx, r.rowID)
		if err != nil {
			return nil, err
		}
		r.info.Items = items
		out = append(out, r.info)
	}
	return out, nil
}
