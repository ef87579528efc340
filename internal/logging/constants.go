package logging

// Standardized field names for structured logging. Keeping these in one
// place makes log output consistent and easy to filter.
const (
	FieldIssuer    = "issuer"
	FieldMessageID = "message_id"
	FieldRunID     = "run_id"
	FieldBatch     = "batch"
	FieldQuery     = "query"
	FieldCount     = "count"
	FieldSubject   = "subject"
	FieldFrom      = "from"
	FieldAmount    = "amount"
	FieldMerchant  = "merchant"
	FieldError     = "error"
	FieldStatus    = "status"
)
