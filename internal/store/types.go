package store

import "time"

// Conversation is one chat thread owned by a user.
type Conversation struct {
	ID        string    `json:"conversation_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is a conversation plus its most recent message,
// used by the conversation list endpoint.
type ConversationSummary struct {
	Conversation
	LastMessage string `json:"last_message"`
}

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one persisted chat message.
type Message struct {
	ID               string    `json:"id"`
	ConversationID   string    `json:"conversation_id"`
	Sender           Sender    `json:"sender"`
	Content          string    `json:"content"`
	MessageType      string    `json:"message_type"` // "text", "query" or "response"
	TokensUsed       int       `json:"tokens_used"`
	ProcessingTimeMs int64     `json:"processing_time"`
	CreatedAt        time.Time `json:"created_at"`
}

// User is a registered chat user.
type User struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductSales is one row of the top-sold-products report.
type ProductSales struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	SalesCount int     `json:"sales_count"`
}

// OrderItemInfo is one line item of an order, with its product resolved.
type OrderItemInfo struct {
	ProductName  string  `json:"product_name"`
	ProductBrand string  `json:"product_brand"`
	Status       string  `json:"status"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
}

// OrderInfo is an order with its line items.
type OrderInfo struct {
	OrderID     string          `json:"order_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ShippedAt   *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	ReturnedAt  *time.Time      `json:"returned_at,omitempty"`
	NumOfItem   int             `json:"num_of_item"`
	TotalAmount float64         `json:"total_amount"`
	Items       []OrderItemInfo `json:"items"`
}

// ProductStockInfo is a product with its available inventory count.
type ProductStockInfo struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Category       string  `json:"category"`
	RetailPrice    float64 `json:"retail_price"`
	AvailableStock int     `json:"available_stock"`
	SKU            string  `json:"sku"`
}

// ProductListing is one product search result.
type ProductListing struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Category       string  `json:"category"`
	Department     string  `json:"department"`
	RetailPrice    float64 `json:"retail_price"`
	AvailableStock int     `json:"available_stock"`
	SKU            string  `json:"sku"`
}

// Stats holds store-wide aggregate counts.
type Stats struct {
	TotalProducts  int `json:"total_products"`
	TotalOrders    int `json:"total_orders"`
	AvailableStock int `json:"available_stock"`
	TotalUsers     int `json:"total_users"`
}

// CategoryCount is one product category with its product count.
type CategoryCount struct {
	Category     string `json:"category"`
	ProductCount int    `json:"product_count"`
}

// BrandCount is one brand with its product count.
type BrandCount struct {
	Brand        string `json:"brand"`
	ProductCount int    `json:"product_count"`
}
