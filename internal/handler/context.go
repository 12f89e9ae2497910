package handler

type ContextKey string

var (
	RoleCtxKey            ContextKey = "role"
	SubCtxKey             ContextKey = "sub"
	MyInfoCtx             ContextKey = "myInfo"
	UserInfoCtx           ContextKey = "userInfo"
	CrewCtx               ContextKey = "crew"
	StaffMemberCtx        ContextKey = "staffMember"
	CleanRoomCtx          ContextKey = "cleanRoom"
	IsolatorSectionCtx    ContextKey = "isolatorSection"
	ShiftTemplateCtx      ContextKey = "shiftTemplate"
	OperatorValidationCtx ContextKey = "operatorValidation"
	RotaDateCtx           ContextKey = "rotaDate"
)
