package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
)

// ExpenseHandler serves the expense ledger routes.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Routes mounts the expense endpoints. All routes require authentication.
func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenses, err := h.expenses.List(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), r.URL.Query().Get("roomId"))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "expenses retrieved successfully", expenses)
}

func (h *ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateExpenseInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	ctx := r.Context()
	expense, err := h.expenses.Create(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusCreated, "expense created successfully", expense)
}

func (h *ExpenseHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expense, err := h.expenses.Get(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "expense retrieved successfully", expense)
}

func (h *ExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch service.ExpensePatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	expense, err := h.expenses.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "expense updated successfully", expense)
}

func (h *ExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "expense deleted successfully", nil)
}
