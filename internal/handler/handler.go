// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It hands the resolved request id and the raw query to the
// service layer and renders whatever comes back, success or error.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler
