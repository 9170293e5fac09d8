package converter

import (
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"

	"github.com/google/uuid"
)

// MedicineOrderToResponse converts a MedicineOrder entity to MedicineOrderResponse DTO
func MedicineOrderToResponse(order *entity.MedicineOrder) *dto.MedicineOrderResponse {
	if order == nil {
		return nil
	}

	response := &dto.MedicineOrderResponse{
		ID:         order.ID,
		PatientID:  order.PatientID,
		MedicineID: order.MedicineID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}

	if order.Medicine.ID != uuid.Nil {
		response.MedicineName = order.Medicine.Name
	}
	if order.Patient.User.FullName != "" {
		response.PatientName = order.Patient.User.FullName
	}

	return response
}

// MedicineOrdersToResponses converts a slice of MedicineOrder entities to slice of MedicineOrderResponse DTOs
func MedicineOrdersToResponses(orders []entity.MedicineOrder) []dto.MedicineOrderResponse {
	responses := make([]dto.MedicineOrderResponse, len(orders))
	for i, order := range orders {
		resp := MedicineOrderToResponse(&order)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
