// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the user endpoints (register, login,
// logout, refresh) and the task endpoints to the credential store, the
// token service, the session blacklist and the task service.
package api
