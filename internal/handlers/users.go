package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
)

// UserHandler serves the income and payment-method bookkeeping routes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Routes mounts the user bookkeeping endpoints. All routes require
// authentication.
func (h *UserHandler) Routes(r chi.Router) {
	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", h.listIncomes)
		r.Post("/", h.addIncome)
		r.Put("/{id}", h.updateIncome)
		r.Delete("/{id}", h.deleteIncome)
	})
	r.Route("/methods", func(r chi.Router) {
		r.Get("/", h.listMethods)
		r.Post("/", h.addMethod)
		r.Delete("/{id}", h.deleteMethod)
	})
}

func (h *UserHandler) listIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.users.ListIncomes(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "incomes retrieved successfully", incomes)
}

func (h *UserHandler) addIncome(w http.ResponseWriter, r *http.Request) {
	var in service.IncomeInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	income, err := h.users.AddIncome(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusCreated, "income added successfully", income)
}

func (h *UserHandler) updateIncome(w http.ResponseWriter, r *http.Request) {
	var patch service.IncomePatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	income, err := h.users.UpdateIncome(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "income updated successfully", income)
}

func (h *UserHandler) deleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteIncome(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "income deleted successfully", nil)
}

func (h *UserHandler) listMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.users.ListMethods(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "methods retrieved successfully", methods)
}

func (h *UserHandler) addMethod(w http.ResponseWriter, r *http.Request) {
	var in service.MethodInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	method, err := h.users.AddMethod(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusCreated, "method added successfully", method)
}

func (h *UserHandler) deleteMethod(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteMethod(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "method deleted successfully", nil)
}
