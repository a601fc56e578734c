package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
)

// RoomHandler serves the room directory and settlement routes.
type RoomHandler struct {
	rooms    *service.RoomService
	expenses *service.ExpenseService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(rooms *service.RoomService, expenses *service.ExpenseService) *RoomHandler {
	return &RoomHandler{rooms: rooms, expenses: expenses}
}

// Routes mounts the room endpoints. All routes require authentication.
func (h *RoomHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/join", h.join)
		r.Post("/leave", h.leave)
		r.Post("/passcode", h.changePasscode)
		r.Get("/best-organizer", h.bestOrganizer)
		r.Get("/expenses", h.listExpenses)
	})
}

func (h *RoomHandler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "rooms retrieved successfully", summaries)
}

func (h *RoomHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRoomInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.rooms.Create(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusCreated, "room created successfully", room)
}

func (h *RoomHandler) get(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "room retrieved successfully", room)
}

func (h *RoomHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch service.RoomPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.rooms.Update(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "room updated successfully", room)
}

func (h *RoomHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "room deleted successfully", nil)
}

func (h *RoomHandler) join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passcode string `json:"passcode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.rooms.Join(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Passcode)
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "joined room successfully", room)
}

func (h *RoomHandler) leave(w http.ResponseWriter, r *http.Request) {
	if err := h.rooms.Leave(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "left room successfully", nil)
}

func (h *RoomHandler) changePasscode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passcode string `json:"passcode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.rooms.ChangePasscode(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Passcode); err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "passcode changed successfully", nil)
}

func (h *RoomHandler) bestOrganizer(w http.ResponseWriter, r *http.Request) {
	result, err := h.rooms.BestOrganizer(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	message := "best organizer calculated successfully"
	if result.BestOrganizer == nil {
		message = "no expenses found for this room"
	}
	respond(w, http.StatusOK, message, result)
}

func (h *RoomHandler) listExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenses, err := h.expenses.List(ctx, middleware.GetUserID(ctx), middleware.GetUsername(ctx), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "expenses retrieved successfully", expenses)
}
