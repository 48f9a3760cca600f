package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees(h.tenantID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工成功", employee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string          `json:"name" validate:"required"`
		Email               string          `json:"email" validate:"omitempty,email"`
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

	employee := &domain.Employee{
		TenantID:            h.tenantID(r),
		Name:                req.Name,
		Email:               req.Email,
		SkillProficiencySet: req.SkillProficiencySet,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Name                *string         `json:"name"`
		Email               *string         `json:"email"`
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

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.SkillProficiencySet != nil {
		employee.SkillProficiencySet = req.SkillProficiencySet
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
