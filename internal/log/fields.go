package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"

	FieldProfesorID   = "profesor_id"
	FieldEstudianteID = "estudiante_id"
	FieldMes          = "mes"
	FieldAnio         = "anio"
	FieldMontoCents   = "monto_cents"
	FieldCategoria    = "categoria"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentAdmin     = "admin"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackup    = "backup"
	ComponentSheets    = "sheets"
	ComponentRateLimit = "rate_limit"
)
