// Package lib holds modules that do not fit strictly into other layers.
//
// It currently holds background job processing (Redis/Asynq), used by
// the mutation audit trail.
package lib
