// Package handler is the HTTP layer that sits right behind the router.
//
// Every endpoint is a typed function wrapped by Handle, which binds the
// request, validates it through the validation package, then calls the
// service layer and writes the JSON response.
package handler
