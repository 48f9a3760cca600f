package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/roster"
)

// parseDateRange 解析 from/to 两个日期（to 为开区间端点）
func parseDateRange(fromText, toText string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromText)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ValidationError{Message: "from 日期格式无效，应为 YYYY-MM-DD"}
	}
	to, err := time.Parse("2006-01-02", toText)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ValidationError{Message: "to 日期格式无效，应为 YYYY-MM-DD"}
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, &domain.ValidationError{Message: "to 必须晚于 from"}
	}
	return from, to, nil
}

func (h *Handler) readDateRangeBody(r *http.Request) (time.Time, time.Time, error) {
	var req struct {
		From string `json:"from" validate:"required"`
		To   string `json:"to" validate:"required"`
	}
	if err := h.readJSON(r, &req); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := h.validate.Struct(req); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return parseDateRange(req.From, req.To)
}

func (h *Handler) GenerateShifts(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.readDateRangeBody(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	tenantID := h.tenantID(r)

	// 同一租户同一时刻只允许一次生成，用 redis 锁挡住并发请求
	lockKey := fmt.Sprintf("roster_generate_lock_%d", tenantID)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	locked, err := h.redisClient.SetNX(ctx, lockKey, "1", time.Duration(h.config.Roster.GenerateLockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "正在生成班表，请稍后再试")
		return
	}
	defer func() {
		if err := h.redisClient.Del(ctx, lockKey).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}()

	instances, err := h.roster.GenerateShifts(tenantID, from, to)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成班表成功", instances)
}

func (h *Handler) PublishRoster(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.readDateRangeBody(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	messages, err := h.roster.PublishRoster(h.tenantID(r), from, to)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	// 通知邮件逐个投递到队列，失败只记日志不回滚发布
	for _, msg := range messages {
		if err := h.publishMailMessage(msg); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "发布班表成功", nil)
}

func (h *Handler) GetShiftInstances(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	instances, err := h.repository.GetShiftInstancesInRange(h.tenantID(r), from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", instances)
}

func (h *Handler) GetShiftInstance(w http.ResponseWriter, r *http.Request) {
	si := r.Context().Value(ShiftInstanceCtx).(*domain.ShiftInstance)
	h.successResponse(w, r, "获取班次成功", si)
}

func (h *Handler) UpdateShiftAssignment(w http.ResponseWriter, r *http.Request) {
	si := r.Context().Value(ShiftInstanceCtx).(*domain.ShiftInstance)

	var req roster.Assignment
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.roster.ApplyAssignment(si.ID, &req)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次指派成功", updated)
}

func (h *Handler) GetRosterView(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	view, err := h.roster.GetView(h.tenantID(r), from, to)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班视图成功", view)
}
