package leave

import (
	"net/http"
	"strconv"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.L().Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		EmployeeID: c.GetString("employee_id"),
		Role:       c.GetString("role"),
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	rec, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(rec), nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	q := ListLeaveQuery{
		EmployeeID: c.Query("employee_id"),
		Status:     c.Query("status"),
		LeaveType:  c.Query("leave_type"),
		Page:       page,
		Limit:      limit,
	}

	leaves, total, err := h.service.GetAll(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		out = append(out, toResponse(&leaves[i]))
	}
	meta := response.NewPaginationMeta(total, q.Page, q.Limit)
	response.Success(c, http.StatusOK, out, &meta)
}

func (h *Handler) GetStats(c *gin.Context) {
	q := StatsQuery{
		EmployeeID: c.Query("employee_id"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
	}

	stats, err := h.service.Stats(c.Request.Context(), actorFrom(c), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	rec, err := h.service.GetByID(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(rec), nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	rec, err := h.service.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(rec), nil)
}

func (h *Handler) Approve(c *gin.Context) {
	rec, err := h.service.Approve(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(rec), nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperror.MapValidationError(err))
		return
	}

	rec, err := h.service.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(rec), nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	rec, err := h.service.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(rec), nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("leave request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func toResponse(rec *LeaveRequest) LeaveResponse {
	out := LeaveResponse{
		ID:              rec.ID.String(),
		EmployeeID:      rec.EmployeeID.String(),
		LeaveType:       rec.LeaveType,
		StartDate:       rec.StartDate.Format("2006-01-02"),
		EndDate:         rec.EndDate.Format("2006-01-02"),
		TotalDays:       rec.TotalDays,
		Reason:          rec.Reason,
		Status:          rec.Status,
		WorkArrangement: rec.WorkArrangement,

		EmergencyContactName:  rec.EmergencyContactName,
		EmergencyContactPhone: rec.EmergencyContactPhone,

		AppliedAt:       rec.AppliedAt.Format("2006-01-02T15:04:05Z07:00"),
		RejectionReason: rec.RejectionReason,
	}
	if rec.CoveringEmployeeID != nil {
		v := rec.CoveringEmployeeID.String()
		out.CoveringEmployeeID = &v
	}
	if rec.DecidedAt != nil {
		v := rec.DecidedAt.Format("2006-01-02T15:04:05Z07:00")
		out.DecidedAt = &v
	}
	if rec.DecidedBy != nil {
		v := rec.DecidedBy.String()
		out.DecidedBy = &v
	}
	return out
}
