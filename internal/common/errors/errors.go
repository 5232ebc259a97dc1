// Package errors provides standardized job errors and their BPMN mapping.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode is the stable code surfaced to the process engine.
type ErrorCode string

const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrCodeDatasetLoadFailed   ErrorCode = "DATASET_LOAD_FAILED"
	ErrCodeDatasetNotFound     ErrorCode = "DATASET_NOT_FOUND"
	ErrCodeDatasetStoreFailed  ErrorCode = "DATASET_STORE_FAILED"

	ErrCodeRuleNotFound       ErrorCode = "RULE_NOT_FOUND"
	ErrCodeRuleStoreFailed    ErrorCode = "RULE_STORE_FAILED"
	ErrCodeRulesConfigInvalid ErrorCode = "RULES_CONFIG_INVALID"

	ErrCodeWeightsInvalid ErrorCode = "WEIGHTS_INVALID"

	ErrCodeExportFailed   ErrorCode = "EXPORT_FAILED"
	ErrCodeIndexingFailed ErrorCode = "INDEXING_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the structured error every worker returns from execute.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError is what gets thrown to (or failed against) the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the process variables set alongside the error.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

func NewUnsupportedFileTypeError(fileName string) *StandardError {
	return newError(ErrCodeUnsupportedFileType, "Unsupported file type", fmt.Sprintf("file: %s", fileName), false)
}

// NewDatasetLoadFailedError covers unreadable or undecodable source files.
func NewDatasetLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeDatasetLoadFailed, "Dataset could not be loaded",
		fmt.Sprintf("source: %s, error: %v", source, err), true)
}

func NewDatasetNotFoundError(datasetID string) *StandardError {
	return newError(ErrCodeDatasetNotFound, "Dataset not found", fmt.Sprintf("datasetId: %s", datasetID), false)
}

func NewDatasetStoreFailedError(err error) *StandardError {
	return newError(ErrCodeDatasetStoreFailed, "Dataset persistence failed", err.Error(), true)
}

func NewRuleNotFoundError(ruleID string) *StandardError {
	return newError(ErrCodeRuleNotFound, "Business rule not found", fmt.Sprintf("ruleId: %s", ruleID), false)
}

func NewRuleStoreFailedError(err error) *StandardError {
	return newError(ErrCodeRuleStoreFailed, "Business rule persistence failed", err.Error(), true)
}

func NewRulesConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeRulesConfigInvalid, "Rules configuration failed schema validation", details, false)
}

func NewWeightsInvalidError(details string) *StandardError {
	return newError(ErrCodeWeightsInvalid, "Criterion weights could not be computed", details, false)
}

func NewExportFailedError(artifact string, err error) *StandardError {
	return newError(ErrCodeExportFailed, "Export failed", fmt.Sprintf("artifact: %s, error: %v", artifact, err), true)
}

func NewIndexingFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Search indexing failed", fmt.Sprintf("index: %s, error: %v", index, err), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("query: %s, error: %v", queryName, err), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %v", channel, err), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns how many engine retries a code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatasetStoreFailed,
		ErrCodeRuleStoreFailed,
		ErrCodeIndexingFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeDatasetLoadFailed,
		ErrCodeExportFailed:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError for the process engine.
// Non-retryable errors always carry zero retries.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"errorCategory": GetErrorCategory(stdErr.Code),
		"timestamp":     stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and logs.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DATASET") || codeStr == string(ErrCodeUnsupportedFileType):
		return "DATASET"
	case strings.HasPrefix(codeStr, "RULE"):
		return "RULES"
	case strings.HasPrefix(codeStr, "WEIGHTS"):
		return "WEIGHTING"
	case strings.Contains(codeStr, "EXPORT") || strings.Contains(codeStr, "INDEXING"):
		return "EXPORT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
