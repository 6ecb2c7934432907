package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/saiinfotech/catalog-be/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog, public and
// admin.
type ProductHandler struct {
	products services.ProductServiceProvider
	events   services.EventServiceProvider
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products services.ProductServiceProvider, events services.EventServiceProvider) *ProductHandler {
	return &ProductHandler{products: products, events: events}
}

// GetAll lists products, optionally narrowed by search, category and status
// query parameters.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	filter := services.ProductFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	products, err := h.products.GetAllProducts(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch products")
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetFeatured lists the products flagged for the storefront's featured section.
func (h *ProductHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetFeaturedProducts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch featured products")
		writeError(w, http.StatusInternalServerError, "Failed to fetch featured products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get retrieves a single product by its ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.products.GetProductByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to fetch product")
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create adds a new product to the catalog. Validation failures echo the
// underlying error text alongside the generic message, matching what the
// admin UI displays.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Invalid product data",
			"error":   err.Error(),
		})
		return
	}

	product, err := h.products.CreateProduct(input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"message": "Invalid product data",
				"error":   err.Error(),
			})
			return
		}
		log.Error().Err(err).Msg("Failed to create product")
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	h.recordEvent("product.create", fmt.Sprintf("Product %q created", product.Name), product.ID)
	writeJSON(w, http.StatusCreated, product)
}

// Update merges the supplied fields into an existing product.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	var patch services.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product data")
		return
	}

	product, err := h.products.UpdateProduct(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, services.ErrValidation):
			writeError(w, http.StatusBadRequest, "Invalid product data")
		default:
			log.Error().Err(err).Int64("product_id", id).Msg("Failed to update product")
			writeError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	h.recordEvent("product.update", fmt.Sprintf("Product %q updated", product.Name), product.ID)
	writeJSON(w, http.StatusOK, product)
}

// Delete removes a product from the catalog.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	existed, err := h.products.DeleteProduct(id)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("Failed to delete product")
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.recordEvent("product.delete", fmt.Sprintf("Product %d deleted", id), id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// GetStats returns the aggregate stock counts for the admin dashboard.
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.products.GetProductStats()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch stats")
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ProductHandler) recordEvent(eventType, message string, productID int64) {
	if err := h.events.Record(eventType, "info", message, &productID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record audit event")
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
