package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/utils"
)

func (h *Handler) GetAllRotationTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllRotationTemplates(h.tenantID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取轮换模板列表成功", templates)
}

func (h *Handler) GetRotationTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(RotationTemplateCtx).(*domain.RotationTemplate)
	h.successResponse(w, r, "获取轮换模板成功", tpl)
}

func (h *Handler) CreateRotationTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpotID             int64            `json:"spotID" validate:"required"`
		RequiredSkillSet   domain.SkillSet  `json:"requiredSkillSet"`
		RequiredSkillSet2  domain.SkillSet  `json:"requiredSkillSet2"`
		RotationEmployeeID *int64           `json:"rotationEmployeeID"`
		RotationVehicleID  *int64           `json:"rotationVehicleID"`
		StartDayOffset     int32            `json:"startDayOffset" validate:"gte=0"`
		StartTime          string           `json:"startTime" validate:"required"`
		EndDayOffset       int32            `json:"endDayOffset" validate:"gte=0"`
		EndTime            string           `json:"endTime" validate:"required"`
		Type               domain.ShiftType `json:"type" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.RequiredSkillSet == nil {
		req.RequiredSkillSet = domain.NewSkillSet()
	}
	if req.RequiredSkillSet2 == nil {
		req.RequiredSkillSet2 = domain.NewSkillSet()
	}

	tenantID := h.tenantID(r)

	// 模板的时间布局要对照租户的轮换周期长度校验
	state, err := h.repository.GetRosterState(tenantID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	if _, err := h.repository.GetSpot(req.SpotID); err != nil {
		h.domainError(w, r, err)
		return
	}

	tpl := &domain.RotationTemplate{
		TenantID:           tenantID,
		SpotID:             req.SpotID,
		RequiredSkillSet:   req.RequiredSkillSet,
		RequiredSkillSet2:  req.RequiredSkillSet2,
		RotationEmployeeID: req.RotationEmployeeID,
		RotationVehicleID:  req.RotationVehicleID,
		StartDayOffset:     req.StartDayOffset,
		StartTime:          req.StartTime,
		EndDayOffset:       req.EndDayOffset,
		EndTime:            req.EndTime,
		Type:               req.Type,
	}

	if err := utils.ValidateRotationTemplateTiming(tpl, state.RotationLength); err != nil {
		h.domainError(w, r, err)
		return
	}

	if err := h.repository.CreateRotationTemplate(tpl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建轮换模板成功", tpl)
}

func (h *Handler) DeleteRotationTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(RotationTemplateCtx).(*domain.RotationTemplate)

	if err := h.repository.DeleteRotationTemplate(tpl.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除轮换模板成功", nil)
}

func (h *Handler) ImportRotationTemplates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.readWorkbookFromRequest(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	templates, err := h.importer.ImportRotationTemplates(h.tenantID(r), rows)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入轮换模板成功", templates)
}
