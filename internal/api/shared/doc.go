// Package shared holds the request-context keys and the JSON request and
// response helpers used by both the handlers in package api and the
// middleware, without either importing the other.
package shared
