package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/utils"
)

func (h *Handler) GetRosterState(w http.ResponseWriter, r *http.Request) {
	state, err := h.repository.GetRosterState(h.tenantID(r))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班配置成功", state)
}

func (h *Handler) PutRosterState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RotationLength    int32  `json:"rotationLength" validate:"required,gt=0"`
		RotationStartDate string `json:"rotationStartDate" validate:"required"`
		TimeZone          string `json:"timeZone" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.RotationStartDate)
	if err != nil {
		h.errorResponse(w, r, "轮换起始日期格式无效，应为 YYYY-MM-DD")
		return
	}

	state := &domain.RosterState{
		TenantID:          h.tenantID(r),
		RotationLength:    req.RotationLength,
		RotationStartDate: startDate,
		TimeZone:          req.TimeZone,
	}

	if err := utils.ValidateRosterState(state); err != nil {
		h.domainError(w, r, err)
		return
	}

	// 配置不存在则创建，存在则按当前版本更新
	existing, err := h.repository.GetRosterState(state.TenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.internalServerError(w, r, err)
			return
		}
		if err := h.repository.CreateRosterState(state); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "创建排班配置成功", state)
		return
	}

	state.Version = existing.Version
	if err := h.repository.UpdateRosterState(state); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班配置成功", state)
}
