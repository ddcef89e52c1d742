package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Alexandrudiun/spaces/internal/users/service"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/httputil"
	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/middleware"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := middleware.RequireRole(r.Context(), model.RoleAdmin); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, user)
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	users, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WritePaginated(w, users, total, limit, offset)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// Update allows admins to edit anyone, everyone else only themselves.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := requireSelfOrAdmin(r, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var updates model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := middleware.RequireRole(r.Context(), model.RoleAdmin); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.RoleUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.UpdateRole(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

func (h *UserHandler) UpdateImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := requireSelfOrAdmin(r, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.ImageUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.UpdateImage(r.Context(), id, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := middleware.RequireRole(r.Context(), model.RoleAdmin); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// MyBookings lists every desk where the caller appears as attendee.
func (h *UserHandler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		httputil.WriteError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	desks, err := h.service.MyBookings(r.Context(), claims.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, desks)
}

// Positions answers where the caller is at the given instant.
func (h *UserHandler) Positions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		httputil.WriteError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	instant := r.URL.Query().Get("at")
	if instant == "" {
		httputil.WriteError(w, apperrors.InvalidInput("'at' query parameter is required"))
		return
	}

	desks, err := h.service.PositionsAt(r.Context(), claims.UserID, instant)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, desks)
}

func requireSelfOrAdmin(r *http.Request, id string) error {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		return apperrors.Unauthorized("authentication required")
	}
	if claims.UserID == id || claims.Role == model.RoleAdmin {
		return nil
	}
	return apperrors.Forbidden("cannot modify another user")
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/users", h.Create)
	router.GET("/api/users", h.GetAll)
	router.GET("/api/my-bookings", h.MyBookings)
	router.GET("/api/positions", h.Positions)
	router.GET("/api/users/:id", h.GetByID)
	router.PUT("/api/users/:id", h.Update)
	router.PUT("/api/users/:id/role", h.UpdateRole)
	router.PUT("/api/users/:id/image", h.UpdateImage)
	router.DELETE("/api/users/:id", h.Delete)
}
