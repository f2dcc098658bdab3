package model

import (
	"errors"
	"fmt"
)

// DomainError represents domain-specific failures with a stable code
// so callers can branch on the failure class without parsing messages
type DomainError struct {
	Code    string
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e DomainError) Unwrap() error {
	return e.Cause
}

// Common workspace errors
var (
	// ErrPreconditionNotMet indicates a setup stage was requested before its predecessor completed
	ErrPreconditionNotMet = DomainError{
		Code:    "PRECONDITION_NOT_MET",
		Message: "Required setup stage has not completed",
	}

	// ErrDuplicateIdentifier indicates a project or build configuration name is already taken
	ErrDuplicateIdentifier = DomainError{
		Code:    "DUPLICATE_IDENTIFIER",
		Message: "Identifier is already registered",
	}

	// ErrUnknownProject indicates the referenced project is not registered
	ErrUnknownProject = DomainError{
		Code:    "UNKNOWN_PROJECT",
		Message: "Project is not registered in this workspace",
	}

	// ErrUnknownBuildConfig indicates the referenced build configuration is not registered
	ErrUnknownBuildConfig = DomainError{
		Code:    "UNKNOWN_BUILD_CONFIG",
		Message: "Build configuration is not registered in this workspace",
	}

	// ErrInvalidProjectFolder indicates a folder lacks the required build descriptors
	ErrInvalidProjectFolder = DomainError{
		Code:    "INVALID_PROJECT_FOLDER",
		Message: "Folder does not contain a buildable application",
	}

	// ErrCancelled indicates the user dismissed a prompt; the operation is a no-op
	ErrCancelled = DomainError{
		Code:    "OPERATION_CANCELLED",
		Message: "Operation cancelled by user",
	}

	// ErrDependencySyncFailed indicates west update did not complete
	ErrDependencySyncFailed = DomainError{
		Code:    "DEPENDENCY_SYNC_FAILED",
		Message: "Dependency synchronization failed",
	}

	// ErrEnvSetupFailed indicates the Python environment could not be created
	ErrEnvSetupFailed = DomainError{
		Code:    "ENV_SETUP_FAILED",
		Message: "Python environment setup failed",
	}

	// ErrPackageInstallFailed indicates the package install step did not complete
	ErrPackageInstallFailed = DomainError{
		Code:    "PACKAGE_INSTALL_FAILED",
		Message: "Package installation failed",
	}

	// ErrSetupFailed indicates manifest acquisition or workspace initialization failed
	ErrSetupFailed = DomainError{
		Code:    "SETUP_FAILED",
		Message: "Workspace setup failed",
	}

	// ErrToolNotStarted indicates an external tool could not be spawned at all
	ErrToolNotStarted = DomainError{
		Code:    "TOOL_NOT_STARTED",
		Message: "External tool could not be started",
	}

	// ErrCorruptState indicates the persisted workspace state failed validation on load
	ErrCorruptState = DomainError{
		Code:    "STATE_CORRUPT",
		Message: "Persisted workspace state is corrupt",
	}
)

// NewDomainError creates a new domain error with details
func NewDomainError(code, message string, details map[string]interface{}) DomainError {
	return DomainError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WithDetails returns a copy of the error carrying extra context
func (e DomainError) WithDetails(details map[string]interface{}) DomainError {
	e.Details = details
	return e
}

// WithCause returns a copy of the error wrapping an underlying failure
func (e DomainError) WithCause(cause error) DomainError {
	e.Cause = cause
	return e
}

// WithMessage returns a copy of the error with a more specific message
func (e DomainError) WithMessage(format string, args ...interface{}) DomainError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

func hasCode(err error, code string) bool {
	var de DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsPreconditionNotMet checks if the error is a stage ordering violation
func IsPreconditionNotMet(err error) bool {
	return hasCode(err, ErrPreconditionNotMet.Code)
}

// IsDuplicateIdentifier checks if the error is a name collision
func IsDuplicateIdentifier(err error) bool {
	return hasCode(err, ErrDuplicateIdentifier.Code)
}

// IsUnknownProject checks if the error references an unregistered project
func IsUnknownProject(err error) bool {
	return hasCode(err, ErrUnknownProject.Code)
}

// IsUnknownBuildConfig checks if the error references an unregistered build configuration
func IsUnknownBuildConfig(err error) bool {
	return hasCode(err, ErrUnknownBuildConfig.Code)
}

// IsInvalidProjectFolder checks if the error is a folder validation failure
func IsInvalidProjectFolder(err error) bool {
	return hasCode(err, ErrInvalidProjectFolder.Code)
}

// IsCancelled checks if the error is a user cancellation
func IsCancelled(err error) bool {
	return hasCode(err, ErrCancelled.Code)
}

// IsCorruptState checks if the error is a state validation failure
func IsCorruptState(err error) bool {
	return hasCode(err, ErrCorruptState.Code)
}

// IsToolNotStarted checks if the error is an external tool spawn failure
func IsToolNotStarted(err error) bool {
	return hasCode(err, ErrToolNotStarted.Code)
}

// IsSetupStageFailure checks if the error belongs to one of the setup pipeline stages
func IsSetupStageFailure(err error) bool {
	var de DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case ErrSetupFailed.Code, ErrDependencySyncFailed.Code, ErrEnvSetupFailed.Code, ErrPackageInstallFailed.Code:
		return true
	}
	return false
}
