package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldUser      = "user"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldTxType    = "transaction_type"
	FieldTxID      = "transaction_id"
	FieldGoalID    = "goal_id"
	FieldBudgetID  = "budget_id"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldUserCount = "user_count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentRegistry = "registry"
	ComponentStore    = "store"
	ComponentAudit    = "audit"
	ComponentMenu     = "menu"
	ComponentCharts   = "charts"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpAppend   = "append"
	OpRender   = "render"
)
