package handler

type ContextKey string

var (
	RoleCtxKey          ContextKey = "role"
	SubCtxKey           ContextKey = "sub"
	MyInfoCtx           ContextKey = "myInfo"
	UserInfoCtx         ContextKey = "userInfo"
	TenantCtxKey        ContextKey = "tenantID"
	SpotCtx             ContextKey = "spot"
	EmployeeCtx         ContextKey = "employee"
	VehicleCtx          ContextKey = "vehicle"
	RotationTemplateCtx ContextKey = "rotationTemplate"
	ShiftInstanceCtx    ContextKey = "shiftInstance"
)
