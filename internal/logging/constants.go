package logging

// Standardized field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldRange       = "range"
	FieldScope       = "scope"
	FieldCacheKey    = "cache_key"
	FieldFingerprint = "fingerprint"
	FieldCount       = "count"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldFile        = "file_path"
	FieldRow         = "row"
	FieldFormat      = "format"
)
