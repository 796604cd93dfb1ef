// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. PipelineError for the /hello pipeline or HTTPError for everything else)..
// to ensure the client receive meaningful and consistent..
// error messages.
package errs
