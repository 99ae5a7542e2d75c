// Package validation binds and validates request data.
//
// It uses the `validator` library to enforce struct tag rules (limits,
// MongoDB ids) and turns failures into the field error list carried by
// a 400 response.
package validation
