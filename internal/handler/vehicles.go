package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (h *Handler) GetAllVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.repository.GetAllVehicles(h.tenantID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取车辆列表成功", vehicles)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := r.Context().Value(VehicleCtx).(*domain.Vehicle)
	h.successResponse(w, r, "获取车辆成功", vehicle)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string          `json:"name" validate:"required"`
		SkillProficiencySet domain.SkillSet `json:"skillProficiencySet"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.SkillProficiencySet == nil {
		req.SkillProficiencySet = domain.NewSkillSet()
	}

	vehicle := &domain.Vehicle{
		TenantID:            h.tenantID(r),
		Name:                req.Name,
		SkillProficiencySet: req.SkillProficiencySet,
	}

	if err := h.repository.CreateVehicle(vehicle); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建车辆成功", vehicle)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := r.Context().Value(VehicleCtx).(*domain.Vehicle)

	if err := h.repository.DeleteVehicle(vehicle.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除车辆成功", nil)
}
