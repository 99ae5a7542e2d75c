// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as
// optional Clerk authentication, request ids and logging, Prometheus
// metrics, New Relic tracing, CORS, rate limiting and panic recovery.
package middleware
