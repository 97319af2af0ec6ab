// Package rest provides HTTP handlers for the storefront API.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	"github.com/aurelia-labs/jewelstore/internal/checkout"
	"github.com/aurelia-labs/jewelstore/internal/commerce"
	commerceerrors "github.com/aurelia-labs/jewelstore/internal/commerce/errors"
	"github.com/aurelia-labs/jewelstore/internal/order"
	ordererrors "github.com/aurelia-labs/jewelstore/internal/order/errors"
	orderstore "github.com/aurelia-labs/jewelstore/internal/order/store"
	"github.com/aurelia-labs/jewelstore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	catalog  *catalog.Catalog
	sessions *commerce.Sessions
	checkout *checkout.Service
	orders   orderstore.OrderStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new storefront API handler.
func NewHandler(c *catalog.Catalog, sessions *commerce.Sessions, co *checkout.Service, orders orderstore.OrderStore, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  c,
		sessions: sessions,
		checkout: co,
		orders:   orders,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// AddCartItemDto represents the request body for adding a product to the cart.
type AddCartItemDto struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int32  `json:"quantity"   validate:"omitempty,min=1"`
}

// UpdateQuantityDto represents the request body for a cart quantity update.
type UpdateQuantityDto struct {
	Quantity int32 `json:"quantity" validate:"required"`
}

// AddressDto represents the shipping address submitted at checkout.
type AddressDto struct {
	Name       string `json:"name"        validate:"required,max=200"`
	Line1      string `json:"line1"       validate:"required,max=200"`
	Line2      string `json:"line2"       validate:"omitempty,max=200"`
	City       string `json:"city"        validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country"     validate:"required,max=100"`
}

// CheckoutDto represents the request body for placing an order.
type CheckoutDto struct {
	ShippingAddress AddressDto `json:"shipping_address" validate:"required"`
}

// CartDto represents the session cart together with its current quote.
type CartDto struct {
	Items []commerce.CartItem `json:"items"`
	Quote checkout.Quote      `json:"quote"`
}

// WishlistDto represents the session wishlist.
type WishlistDto struct {
	Items []catalog.Product `json:"items"`
}

// RegisterRoutes registers the HTTP routes for the storefront service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.QueryProducts)
			r.Get("/{id}", h.FindProductByID)
		})

		// Session-scoped state
		r.Group(func(r chi.Router) {
			r.Use(web.SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{id}", h.UpdateCartItem)
				r.Delete("/items/{id}", h.RemoveCartItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Put("/{id}", h.AddWishlistItem)
				r.Delete("/{id}", h.RemoveWishlistItem)
			})

			r.Post("/checkout", h.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.FindOrders)
				r.Get("/{id}", h.FindOrderByID)
			})
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// QueryProducts runs the catalog query pipeline with criteria taken from the
// URL parameters: search, category, materials (comma-separated), min_price,
// max_price (cents, inclusive) and sort.
func (h *Handler) QueryProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	sortKey, ok := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	if !ok {
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid sort key: %s", r.URL.Query().Get("sort")))
		return
	}

	criteria := catalog.Criteria{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Sort:     sortKey,
	}
	if materials := r.URL.Query().Get("materials"); materials != "" {
		criteria.Materials = strings.Split(materials, ",")
	}
	if r.URL.Query().Get("min_price") != "" {
		minPrice, ok := web.ParseValidateGte(r, w, mLogger, "min_price", 0)
		if !ok {
			return
		}
		criteria.MinPrice = &minPrice
	}
	if r.URL.Query().Get("max_price") != "" {
		maxPrice, ok := web.ParseValidateGte(r, w, mLogger, "max_price", 0)
		if !ok {
			return
		}
		criteria.MaxPrice = &maxPrice
	}

	products := h.catalog.Query(criteria)
	mLogger.DebugContext(r.Context(), "Catalog query completed", "count", len(products), "sort", string(sortKey))
	web.RespondJSON(w, mLogger, http.StatusOK, products)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.catalog.FindByID(id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// GetCart returns the session cart and its quote.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	store := h.sessions.Get(sessionID)
	web.RespondJSON(w, mLogger, http.StatusOK, CartDto{
		Items: store.Cart(),
		Quote: h.checkout.Quote(store),
	})
}

// AddCartItem puts a catalog product into the session cart. An omitted
// quantity defaults to one.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	var dto AddCartItemDto
	if !h.decodeValid(w, r, mLogger, &dto) {
		return
	}

	product, err := h.findProduct(dto.ProductID)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found for cart add", "ID", dto.ProductID)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", dto.ProductID))
		return
	}

	qty := dto.Quantity
	if qty == 0 {
		qty = 1
	}
	store := h.sessions.Get(sessionID)
	if err := store.AddToCart(*product, qty); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		return
	}
	mLogger.InfoContext(r.Context(), "Product added to cart", "ID", product.ID, "quantity", qty)
	web.RespondJSON(w, mLogger, http.StatusOK, CartDto{Items: store.Cart(), Quote: h.checkout.Quote(store)})
}

// UpdateCartItem sets the quantity of a cart entry.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto UpdateQuantityDto
	if !h.decodeValid(w, r, mLogger, &dto) {
		return
	}

	store := h.sessions.Get(sessionID)
	if err := store.UpdateCartQuantity(id, dto.Quantity); err != nil {
		if errors.Is(err, commerceerrors.ErrInvalidQuantity) {
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating cart quantity", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, CartDto{Items: store.Cart(), Quote: h.checkout.Quote(store)})
}

// RemoveCartItem removes a product from the cart; removing an absent product
// succeeds.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	h.sessions.Get(sessionID).RemoveFromCart(id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the session cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	h.sessions.Get(sessionID).ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

// GetWishlist returns the session wishlist.
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, WishlistDto{Items: h.sessions.Get(sessionID).Wishlist()})
}

// AddWishlistItem inserts a catalog product into the wishlist; idempotent.
func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	product, err := h.catalog.FindByID(id)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found for wishlist add", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
		return
	}
	store := h.sessions.Get(sessionID)
	store.AddToWishlist(*product)
	web.RespondJSON(w, mLogger, http.StatusOK, WishlistDto{Items: store.Wishlist()})
}

// RemoveWishlistItem removes a product from the wishlist; idempotent.
func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	h.sessions.Get(sessionID).RemoveFromWishlist(id)
	w.WriteHeader(http.StatusNoContent)
}

// Checkout places an order from the session cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	var dto CheckoutDto
	if !h.decodeValid(w, r, mLogger, &dto) {
		return
	}

	addr := order.Address{
		Name:       dto.ShippingAddress.Name,
		Line1:      dto.ShippingAddress.Line1,
		Line2:      dto.ShippingAddress.Line2,
		City:       dto.ShippingAddress.City,
		PostalCode: dto.ShippingAddress.PostalCode,
		Country:    dto.ShippingAddress.Country,
	}
	placed, err := h.checkout.PlaceOrder(r.Context(), sessionID, h.sessions.Get(sessionID), addr)
	if err != nil {
		if errors.Is(err, commerceerrors.ErrEmptyCart) {
			web.RespondError(w, mLogger, http.StatusUnprocessableEntity, "Cart is empty")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error placing order", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to place order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order placed", "ID", placed.ID, "total_cents", placed.TotalCents)
	web.RespondJSON(w, mLogger, http.StatusCreated, placed)
}

// FindOrders returns the session's orders, newest first.
func (h *Handler) FindOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	limit, ok := web.ParseOptionalGte(r, w, mLogger, "limit", 1, 20)
	if !ok {
		return
	}
	offset, ok := web.ParseOptionalGte(r, w, mLogger, "offset", 0, 0)
	if !ok {
		return
	}

	list, err := h.orders.FindBySession(r.Context(), sessionID, int32(offset), int32(limit))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving orders", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindOrderByID retrieves one of the session's orders by ID.
func (h *Handler) FindOrderByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.SessionID(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.orders.FindByID(r.Context(), sessionID, id)
	if err != nil {
		if errors.Is(err, ordererrors.ErrOrderNotFound) {
			mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving order", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve order with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeValid decodes the request body into dto and validates it. On failure
// it writes the error response and returns false.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// If the error is a validation error, we can extract field-specific errors.
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) findProduct(id string) (*catalog.Product, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, catalog.ErrProductNotFound
	}
	return h.catalog.FindByID(parsed)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
