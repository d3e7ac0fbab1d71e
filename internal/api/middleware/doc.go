// Package middleware provides the HTTP middleware of the API: request
// tracing and the bearer-token Auth Gate.
package middleware
