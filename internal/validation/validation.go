// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or integer strings) defined in struct tags
// and turns validation errors into the one-line-per-field
// messages the client sees.
package validation
