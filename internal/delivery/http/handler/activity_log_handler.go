package handler

import (
	"net/http"
	"strconv"

	"clinic-management-server/internal/usecase"
	"clinic-management-server/pkg/response"
)

type ActivityLogHandler struct {
	activityLogUsecase usecase.ActivityLogUsecase
}

func NewActivityLogHandler(activityLogUsecase usecase.ActivityLogUsecase) *ActivityLogHandler {
	return &ActivityLogHandler{
		activityLogUsecase: activityLogUsecase,
	}
}

// List handles the paginated activity trail for admins
// @Summary List activity logs
// @Tags Activity Logs
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /activity-logs [get]
func (h *ActivityLogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	logs, total, err := h.activityLogUsecase.ListActivityLogs(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list activity logs")
		return
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, http.StatusOK, "Activity logs retrieved successfully", logs, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}
