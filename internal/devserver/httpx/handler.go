// Package httpx serves the REST surface the client consumes, backed by the
// in-memory dev store. It exists so the client can be developed and tested
// end-to-end without the production backend.
package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/comandaapp/comanda/internal/devserver/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ctxKey string

const userKey ctxKey = "user"

const sessionTTL = 24 * time.Hour

// Account is the single operator the dev server accepts credentials for.
type Account struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// Handler handles every route of the dev server.
type Handler struct {
	store    *store.Store
	sessions store.SessionStore
	account  Account
}

// NewHandler wires the handler to its store, session store and the seeded
// operator account.
func NewHandler(s *store.Store, sessions store.SessionStore, account Account) *Handler {
	return &Handler{store: s, sessions: sessions, account: account}
}

// SignIn checks the seeded credentials and mints a bearer token.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email != h.account.Email || req.Password != h.account.Password {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	token := uuid.NewString()
	user := store.User{ID: h.account.ID, Name: h.account.Name, Email: h.account.Email}
	if err := h.sessions.Put(r.Context(), token, user, sessionTTL); err != nil {
		slog.ErrorContext(r.Context(), "failed to store session", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

// DetailUser returns the operator the bearer token belongs to.
func (h *Handler) DetailUser(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value(userKey).(store.User)
	writeJSON(w, http.StatusOK, user)
}

// ListCategories returns every category.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.store.ListCategories()
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.store.CreateCategory(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(c))
}

// ListProducts returns the products of the category named in the query.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}
	products, err := h.store.ProductsByCategory(categoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateProduct accepts the multipart product form. The banner upload is
// recorded by filename only; the dev server stores no file bytes.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	banner := ""
	if file, header, err := r.FormFile("banner"); err == nil {
		file.Close()
		banner = uuid.NewString() + "-" + header.Filename
	}

	p, err := h.store.CreateProduct(store.Product{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		CategoryID:  r.FormValue("category_id"),
		Banner:      banner,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

// ListOrders returns every non-finished order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.store.ListOrders()
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(h.store, o))
	}
	writeJSON(w, http.StatusOK, out)
}

// OrderDetail returns one order with resolved items.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	o, ok := h.store.Order(orderID)
	if !ok {
		writeError(w, http.StatusBadRequest, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(h.store, o))
}

// CreateOrder opens a draft order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.store.CreateOrder(req.Name, req.Table)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(h.store, o))
}

// AddItem appends a product to an order.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := h.store.AddItem(req.OrderID, req.ProductID, req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := orderItemResponse{ID: item.ID, Amount: item.Amount}
	if p, ok := h.store.Product(item.ProductID); ok {
		resp.Product = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateItem sets a new amount on an item by product id.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.UpdateItemAmount(req.ProductID, req.NewAmount); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// SendOrder moves an order out of draft.
func (h *Handler) SendOrder(w http.ResponseWriter, r *http.Request) {
	var req orderIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.SendOrder(req.OrderID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// FinishOrder closes an order.
func (h *Handler) FinishOrder(w http.ResponseWriter, r *http.Request) {
	var req orderIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.FinishOrder(req.OrderID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Delete removes an order or a single item, depending on which query
// parameter is present.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if orderID := r.URL.Query().Get("order_id"); orderID != "" {
		if err := h.store.DeleteOrder(orderID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	if itemID := r.URL.Query().Get("item_id"); itemID != "" {
		if err := h.store.DeleteItem(itemID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeError(w, http.StatusBadRequest, "order_id or item_id is required")
}

// requireAuth resolves the bearer token and stores the user in the context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeError(w, http.StatusUnauthorized, "token not provided")
			return
		}
		user, ok, err := h.sessions.Get(r.Context(), token)
		if err != nil {
			slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
