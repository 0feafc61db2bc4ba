package store

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterCatalogRoutes mounts the read-only catalog API routes.
func RegisterCatalogRoutes(r chi.Router, catalog *CatalogStore) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/categories", handleCategories(catalog))
		r.Get("/brands", handleBrands(catalog))
		r.Get("/orders/recent", handleRecentOrders(catalog))
	})
}

func limitParam(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func handleCategories(catalog *CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalog.ProductCategories(r.Context())
		if err != nil {
			http.Error(w, `{"error":"failed to fetch categories"}`, http.StatusInternalServerError)
			return
		}
		if categories == nil {
			categories = []CategoryCount{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"categories": categories})
	}
}

func handleBrands(catalog *CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := catalog.TopBrands(r.Context(), limitParam(r, 20))
		if err != nil {
			http.Error(w, `{"error":"failed to fetch brands"}`, http.StatusInternalServerError)
			return
		}
		if brands == nil {
			brands = []BrandCount{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"brands": brands})
	}
}

func handleRecentOrders(catalog *CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := catalog.RecentOrders(r.Context(), limitParam(r, 10))
		if err != nil {
			http.Error(w, `{"error":"failed to fetch orders"}`, http.StatusInternalServerError)
			return
		}
		if orders == nil {
			orders = []OrderInfo{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"orders": orders})
	}
}
