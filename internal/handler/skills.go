package handler

import "net/http"

func (h *Handler) GetAllSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.repository.GetAllSkills(h.tenantID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取技能列表成功", skills)
}

// ResolveSkill 按名称查找技能，不存在时创建（大小写不敏感）
func (h *Handler) ResolveSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required,max=64"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	skill, err := h.repository.ResolveSkill(h.tenantID(r), req.Name)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "解析技能成功", skill)
}
