package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/importer"
)

func (h *Handler) GetAllSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.repository.GetAllSpots(h.tenantID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取岗位列表成功", spots)
}

func (h *Handler) GetSpot(w http.ResponseWriter, r *http.Request) {
	spot := r.Context().Value(SpotCtx).(*domain.Spot)
	h.successResponse(w, r, "获取岗位成功", spot)
}

func (h *Handler) CreateSpot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code             string          `json:"code" validate:"required"`
		Name             string          `json:"name" validate:"required"`
		NameDetail       string          `json:"nameDetail"`
		Description      string          `json:"description"`
		Length           float64         `json:"length" validate:"gte=0"`
		RequiredSkillSet domain.SkillSet `json:"requiredSkillSet"`
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

	spot := &domain.Spot{
		TenantID:         h.tenantID(r),
		Code:             req.Code,
		Name:             req.Name,
		NameDetail:       req.NameDetail,
		Description:      req.Description,
		Length:           req.Length,
		RequiredSkillSet: req.RequiredSkillSet,
	}

	if err := h.repository.CreateSpot(spot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建岗位成功", spot)
}

func (h *Handler) UpdateSpot(w http.ResponseWriter, r *http.Request) {
	spot := r.Context().Value(SpotCtx).(*domain.Spot)

	var req struct {
		Code             *string         `json:"code"`
		Name             *string         `json:"name"`
		NameDetail       *string         `json:"nameDetail"`
		Description      *string         `json:"description"`
		Length           *float64        `json:"length"`
		RequiredSkillSet domain.SkillSet `json:"requiredSkillSet"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Code != nil {
		spot.Code = *req.Code
	}
	if req.Name != nil {
		spot.Name = *req.Name
	}
	if req.NameDetail != nil {
		spot.NameDetail = *req.NameDetail
	}
	if req.Description != nil {
		spot.Description = *req.Description
	}
	if req.Length != nil {
		spot.Length = *req.Length
	}
	if req.RequiredSkillSet != nil {
		spot.RequiredSkillSet = req.RequiredSkillSet
	}

	if err := h.repository.UpdateSpot(spot); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新岗位成功", spot)
}

func (h *Handler) DeleteSpot(w http.ResponseWriter, r *http.Request) {
	spot := r.Context().Value(SpotCtx).(*domain.Spot)

	if err := h.repository.DeleteSpot(spot.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除岗位成功", nil)
}

// readWorkbookFromRequest 从 multipart 表单的 file 字段读取工作簿的所有行
func (h *Handler) readWorkbookFromRequest(r *http.Request) ([][]string, error) {
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, &domain.ValidationError{Message: "请上传工作簿文件"}
	}
	defer file.Close()

	return importer.ReadWorkbookRows(file)
}

func (h *Handler) ImportSpots(w http.ResponseWriter, r *http.Request) {
	rows, err := h.readWorkbookFromRequest(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	spots, err := h.importer.ImportSpots(h.tenantID(r), rows)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入岗位成功", spots)
}
