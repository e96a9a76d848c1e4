package pinelabs

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "pinelabs-list",
		Method:      http.MethodGet,
		Path:        "/api/pinelabs",
		Summary:     "List Pine Labs detail rows visible to the caller",
		Tags:        []string{"pinelabs"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) reconcileOp() huma.Operation {
	return huma.Operation{
		OperationID: "pinelabs-reconcile",
		Method:      http.MethodPut,
		Path:        "/api/mappings/{id}/pinelabs",
		Summary:     "Replace the Pine Labs detail set of a mapping",
		Description: "Takes the full desired detail set, computes inserts, updates and deletes against the persisted rows and applies them. Rows absent from the payload are removed.",
		Tags:        []string{"pinelabs"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "pinelabs-delete",
		Method:      http.MethodDelete,
		Path:        "/api/pinelabs/{id}",
		Summary:     "Delete one Pine Labs detail row",
		Tags:        []string{"pinelabs"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
