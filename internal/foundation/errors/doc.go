// Package errors provides the classified error primitives used across catalogmirror.
//
// Every failure that reaches a user (reload, relocation, launch, probe) is carried as a
// ClassifiedError so that the reporter, the CLI and the admin API can decide how loudly
// to surface it without string matching.
//
//   - ErrorCategory: which subsystem failed (repository, relocation, launch, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether the operation may be retried
//   - ErrorBuilder: fluent constructor
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRelocation, "copy executables").
//		WithContext("from", oldRoot).
//		WithContext("to", newRoot).
//		Build()
package errors
