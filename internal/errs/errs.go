// Package errs defines the error envelope returned by every endpoint.
//
// Handlers and services return *HTTPError values; the global error
// handler in the middleware package renders them as JSON:
//
//	{"code": "NOT_FOUND", "message": "Event not found", "status": 404, ...}
package errs
