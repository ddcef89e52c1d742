package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Alexandrudiun/spaces/internal/desks/service"
	apperrors "github.com/Alexandrudiun/spaces/pkg/errors"
	"github.com/Alexandrudiun/spaces/pkg/httputil"
	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/middleware"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

type DeskHandler struct {
	service service.DeskService
	log     *logger.Logger
}

func NewDeskHandler(service service.DeskService, log *logger.Logger) *DeskHandler {
	return &DeskHandler{service: service, log: log}
}

func (h *DeskHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := middleware.RequireRole(r.Context(), model.RoleManager, model.RoleAdmin); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.DeskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	desk, err := h.service.Create(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, desk)
}

func (h *DeskHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	desks, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WritePaginated(w, desks, total, limit, offset)
}

func (h *DeskHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	desk, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, desk)
}

func (h *DeskHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := middleware.RequireRole(r.Context(), model.RoleManager, model.RoleAdmin); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.DeskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	desk, err := h.service.Update(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, desk)
}

func (h *DeskHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *DeskHandler) RequestBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.RequestBooking(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, booking)
}

func (h *DeskHandler) SetBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	// anyone may cancel; granting or refusing a slot is a manager decision
	if req.Status != string(model.StatusCancelled) {
		if err := middleware.RequireRole(r.Context(), model.RoleManager, model.RoleAdmin); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	booking, err := h.service.SetBookingStatus(r.Context(), ps.ByName("id"), ps.ByName("bookingId"), req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, booking)
}

func (h *DeskHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	details, err := h.service.GetBooking(r.Context(), ps.ByName("id"), ps.ByName("bookingId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, details)
}

func (h *DeskHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	available, err := h.service.CheckAvailability(r.Context(), ps.ByName("id"), query.Get("start"), query.Get("end"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]bool{"is_available": available})
}

func (h *DeskHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/desks", h.Create)
	router.GET("/api/desks", h.GetAll)
	router.GET("/api/desks/:id", h.GetByID)
	router.PUT("/api/desks/:id", h.Update)
	router.DELETE("/api/desks/:id", h.Delete)

	router.POST("/api/desks/:id/bookings", h.RequestBooking)
	router.GET("/api/desks/:id/bookings/:bookingId", h.GetBooking)
	router.PATCH("/api/desks/:id/bookings/:bookingId", h.SetBookingStatus)
	router.GET("/api/desks/:id/availability", h.CheckAvailability)
}
