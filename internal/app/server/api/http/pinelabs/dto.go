package pinelabs

import (
	"finmap/internal/domain/pinelabs"
)

type listOutput struct {
	Body pinelabs.ListResponse
}

type reconcileInput struct {
	MappingID int `path:"id" example:"1" doc:"Mapping id"`
	Body      reconcileRequest
}

type reconcileRequest struct {
	// Details is the full desired state for the mapping. Persisted rows
	// missing from it are deleted.
	Details []pinelabs.Entry `json:"details"`
}

type reconcileOutput struct {
	Body reconcileResponse
}

type reconcileResponse struct {
	Status string                   `json:"status"`
	Result pinelabs.ReconcileResult `json:"result"`
}

type deleteInput struct {
	ID int `path:"id" example:"1" doc:"Detail row id"`
}

type deleteOutput struct {
	Body deleteResponse
}

type deleteResponse struct {
	Status string `json:"status"`
}
