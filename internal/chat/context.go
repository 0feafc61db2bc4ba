package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ziadkadry99/shopchat/internal/store"
)

// DegradedSummary is used when the catalog cannot be reached. Generation
// still proceeds with this summary so the turn always produces a reply.
const DegradedSummary = "Unable to retrieve specific information"

// ResultKind tags the variant carried by a ContextResult.
type ResultKind string

const (
	KindTopProducts   ResultKind = "top_products"
	KindOrderStatus   ResultKind = "order_status"
	KindProductStock  ResultKind = "product_stock"
	KindProductSearch ResultKind = "product_search"
	KindGeneralInfo   ResultKind = "general_info"
)

// ContextResult is the outcome of context aggregation: a tagged union of
// the intent-specific payload plus a one-line natural-language summary
// that is injected verbatim into the generation prompt.
type ContextResult struct {
	Kind        ResultKind
	TopProducts []store.ProductSales
	Order       *store.OrderInfo
	Stock       *store.ProductStockInfo
	Products    []store.ProductListing
	Stats       *store.Stats
	Summary     string
	Degraded    bool
}

// payload returns the variant value matching the result kind. Missing
// orders and products yield nil, which serializes as JSON null.
func (r *ContextResult) payload() any {
	switch r.Kind {
	case KindTopProducts:
		return r.TopProducts
	case KindOrderStatus:
		if r.Order == nil {
			return nil
		}
		return r.Order
	case KindProductStock:
		if r.Stock == nil {
			return nil
		}
		return r.Stock
	case KindProductSearch:
		return r.Products
	default:
		if r.Stats == nil {
			return nil
		}
		return r.Stats
	}
}

// MarshalJSON serializes the result in the {type, data, summary} shape
// embedded into the generation prompt.
func (r *ContextResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ResultKind `json:"type"`
		Data    any        `json:"data"`
		Summary string     `json:"summary"`
	}{
		Type:    r.Kind,
		Data:    r.payload(),
		Summary: r.Summary,
	})
}

// CatalogReader is the slice of the catalog store the aggregator needs.
type CatalogReader interface {
	TopSoldProducts(ctx context.Context, n int) ([]store.ProductSales, error)
	OrderStatus(ctx context.Context, orderID string) (*store.OrderInfo, error)
	ProductStock(ctx context.Context, fragment string) (*store.ProductStockInfo, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]store.ProductListing, error)
	GeneralStats(ctx context.Context) (*store.Stats, error)
}

// Aggregator resolves an intent plus its entities into grounding facts
// from the catalog.
type Aggregator struct {
	catalog     CatalogReader
	topN        int
	searchLimit int
}

// NewAggregator creates an aggregator over the given catalog.
// topN bounds the top-sold report, searchLimit the product search.
func NewAggregator(catalog CatalogReader, topN, searchLimit int) *Aggregator {
	return &Aggregator{catalog: catalog, topN: topN, searchLimit: searchLimit}
}

// Aggregate fetches the context for one turn. It never returns an error:
// any lookup failure degrades to a generic result with a fixed summary,
// and an intent whose required entity is missing takes the general-info
// path. rawText is the full utterance, used by the product search.
func (a *Aggregator) Aggregate(ctx context.Context, intent Intent, entities map[string]string, rawText string) *ContextResult {
	result, err := a.aggregate(ctx, intent, entities, rawText)
	if err != nil {
		log.Printf("chat: context aggregation failed for intent %s: %v", intent, err)
		return &ContextResult{
			Kind:     KindGeneralInfo,
			Summary:  DegradedSummary,
			Degraded: true,
		}
	}
	return result
}

func (a *Aggregator) aggregate(ctx context.Context, intent Intent, entities map[string]string, rawText string) (*ContextResult, error) {
	switch intent {
	case IntentTopSoldProducts:
		return a.topSoldProducts(ctx)
	case IntentOrderStatus:
		orderID, ok := entities[EntityOrderID]
		if !ok {
			return a.generalInfo(ctx)
		}
		return a.orderStatus(ctx, orderID)
	case IntentProductStock:
		fragment, ok := entities[EntityProductName]
		if !ok {
			return a.generalInfo(ctx)
		}
		return a.productStock(ctx, fragment)
	case IntentProductSearch:
		return a.searchProducts(ctx, rawText)
	default:
		return a.generalInfo(ctx)
	}
}

func (a *Aggregator) topSoldProducts(ctx context.Context) (*ContextResult, error) {
	products, err := a.catalog.TopSoldProducts(ctx, a.topN)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return &ContextResult{
		Kind:        KindTopProducts,
		TopProducts: products,
		Summary:     fmt.Sprintf("Here are the top %d most sold products: %s", a.topN, strings.Join(names, ", ")),
	}, nil
}

func (a *Aggregator) orderStatus(ctx context.Context, orderID string) (*ContextResult, error) {
	order, err := a.catalog.OrderStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	summary := fmt.Sprintf("Order %s not found", orderID)
	if order != nil {
		summary = fmt.Sprintf("Order %s status: %s", orderID, order.Status)
	}
	return &ContextResult{Kind: KindOrderStatus, Order: order, Summary: summary}, nil
}

func (a *Aggregator) productStock(ctx context.Context, fragment string) (*ContextResult, error) {
	product, err := a.catalog.ProductStock(ctx, fragment)
	if err != nil {
		return nil, err
	}
	summary := "Product not found"
	if product != nil {
		summary = fmt.Sprintf("%s: %d items in stock", product.Name, product.AvailableStock)
	}
	return &ContextResult{Kind: KindProductStock, Stock: product, Summary: summary}, nil
}

func (a *Aggregator) searchProducts(ctx context.Context, query string) (*ContextResult, error) {
	products, err := a.catalog.SearchProducts(ctx, query, a.searchLimit)
	if err != nil {
		return nil, err
	}
	return &ContextResult{
		Kind:     KindProductSearch,
		Products: products,
		Summary:  fmt.Sprintf("Found %d products matching your search", len(products)),
	}, nil
}

func (a *Aggregator) generalInfo(ctx context.Context) (*ContextResult, error) {
	stats, err := a.catalog.GeneralStats(ctx)
	if err != nil {
		return nil, err
	}
	return &ContextResult{
		Kind:    KindGeneralInfo,
		Stats:   stats,
		Summary: fmt.Sprintf("We have %d products, %d orders, and %d items in stock", stats.TotalProducts, stats.TotalOrders, stats.AvailableStock),
	}, nil
}
