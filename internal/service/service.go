// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated payloads, stamps lifecycle fields, turns empty or missed
// writes into HTTP errors and keeps the list cache and audit trail in
// step with every mutation.
package service
