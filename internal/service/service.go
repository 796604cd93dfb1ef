// Package service contains the business logic.
//
// It sits between the handler and the downstream clients.
// It receives the resolved request id and the raw query from the
// handler, runs the request pipeline, and returns either a greeting
// or the error that stopped the pipeline.
package service
