package diag

// Code is a closed catalogue of diagnostic kinds, partitioned by phase.
// L0xx: lexical. P1xx: structural (parser). V2xx: value/semantic.
// S3xx: schema compile. Q4xx: schema keyword validation failures.
type Code string

const (
	// Lexical — L0xx
	CodeIllegalChar              Code = "L001"
	CodeStringBadEscape          Code = "L002"
	CodeStringBadUnicodeEscape   Code = "L003"
	CodeStringIllegalControlChar Code = "L004"
	CodeUnterminatedString       Code = "L005"
	CodeUnterminatedEmbedBlock   Code = "L006"
	CodeNumberBadChar            Code = "L007"
	CodeNumberOutOfRange         Code = "L008"

	// Structural — P1xx
	CodeUnexpectedToken   Code = "P101"
	CodeMissingColon      Code = "P102"
	CodeUnclosedContainer Code = "P103"
	CodeDuplicateKey      Code = "P104"
	CodeNonStringKey      Code = "P105"

	// Value / semantic — V2xx
	CodeRecursionLimitExceeded Code = "V201"

	// Schema compile — S3xx
	CodeSchemaUnknownKeyword Code = "S301"
	CodeSchemaInvalidRef     Code = "S302"
	CodeSchemaInvalidPattern Code = "S303"

	// Schema validation — Q4xx (one per Draft-7 keyword failure family)
	CodeTypeMismatch    Code = "Q401"
	CodeEnumMismatch    Code = "Q402"
	CodeConstMismatch   Code = "Q403"
	CodeRequiredMissing Code = "Q404"
	CodeAdditionalProps Code = "Q405"
	CodeMinItems        Code = "Q406"
	CodeMaxItems        Code = "Q407"
	CodeUniqueItems     Code = "Q408"
	CodeMinimum         Code = "Q409"
	CodeMaximum         Code = "Q410"
	CodeMultipleOf      Code = "Q411"
	CodeMinLength       Code = "Q412"
	CodeMaxLength       Code = "Q413"
	CodePatternMismatch Code = "Q414"
	CodeAllOfFailed     Code = "Q415"
	CodeAnyOfFailed     Code = "Q416"
	CodeOneOfFailed     Code = "Q417"
	CodeNotFailed       Code = "Q418"
	CodeContainsFailed  Code = "Q419"
	CodeAdditionalItems Code = "Q420"
	CodePropertyNames   Code = "Q421"
)
