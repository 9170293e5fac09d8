package handler

import (
	"encoding/json"
	"net/http"

	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/delivery/http/middleware"
	"clinic-management-server/internal/usecase"
	"clinic-management-server/pkg/response"
	"clinic-management-server/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicineOrderHandler struct {
	orderUsecase usecase.MedicineOrderUsecase
	validator    *validator.CustomValidator
}

func NewMedicineOrderHandler(orderUsecase usecase.MedicineOrderUsecase, validator *validator.CustomValidator) *MedicineOrderHandler {
	return &MedicineOrderHandler{
		orderUsecase: orderUsecase,
		validator:    validator,
	}
}

// Create handles order creation by a patient
// @Summary Create a medicine order
// @Tags Medicine Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMedicineOrderRequest true "Create Order Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicine-orders [post]
func (h *MedicineOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateMedicineOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.orderUsecase.CreateOrder(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrMedicineNotFound:
			response.NotFound(w, "Medicine not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient profile not found")
		default:
			response.InternalServerError(w, "Failed to create order")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Order created successfully", order)
}

// Dispense handles order fulfilment by clinic staff
// @Summary Dispense a medicine order
// @Description Consume stock and close the order
// @Tags Medicine Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medicine-orders/{id}/dispense [post]
func (h *MedicineOrderHandler) Dispense(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	order, err := h.orderUsecase.DispenseOrder(r.Context(), actor, orderID)
	if err != nil {
		switch err {
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrOrderNotPending:
			response.Conflict(w, "Order is no longer pending")
		case usecase.ErrInsufficientStock:
			response.Conflict(w, "Insufficient medicine stock")
		default:
			response.InternalServerError(w, "Failed to dispense order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order dispensed successfully", order)
}

// Cancel handles order cancellation
// @Summary Cancel a medicine order
// @Tags Medicine Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /medicine-orders/{id}/cancel [post]
func (h *MedicineOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	order, err := h.orderUsecase.CancelOrder(r.Context(), actor, orderID)
	if err != nil {
		switch err {
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrOrderNotOwned:
			response.Forbidden(w, "Order belongs to another patient")
		case usecase.ErrOrderNotPending:
			response.Conflict(w, "Order is no longer pending")
		default:
			response.InternalServerError(w, "Failed to cancel order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order cancelled successfully", order)
}

// Get handles fetching a single order
// @Summary Get a medicine order
// @Tags Medicine Orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /medicine-orders/{id} [get]
func (h *MedicineOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order ID", nil)
		return
	}

	order, err := h.orderUsecase.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		switch err {
		case usecase.ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case usecase.ErrOrderNotOwned:
			response.Forbidden(w, "Order belongs to another patient")
		default:
			response.InternalServerError(w, "Failed to get order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order retrieved successfully", order)
}

// List handles the actor-scoped order list
// @Summary List medicine orders
// @Description Patients see their own orders, staff see all
// @Tags Medicine Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /medicine-orders [get]
func (h *MedicineOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	orders, err := h.orderUsecase.ListOrders(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to list orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}
