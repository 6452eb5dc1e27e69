// Package handlers implements the service's HTTP surface: identity, the
// analyze pipeline, submission history, and a small debug surface, each as
// a gin RouterGroup-registering handler struct.
//
// This file defines response shapes shared across multiple handler files.
package handlers

// SuccessResponse is a bare acknowledgement body for endpoints with nothing
// else to return.
type SuccessResponse struct {
	Message string `json:"message"`
}
