package logging

// Structured field names.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldFiles   = "files"
	FieldRepo    = "repo"
	FieldConfig  = "config"
	FieldBranch  = "branch"
	FieldTarget  = "target"
	FieldOutcome = "outcome"
	FieldBlocks  = "blocks"
	FieldBlock   = "block"
	FieldChoice  = "choice"
	FieldCount   = "count"
	FieldWorkers = "workers"
)
