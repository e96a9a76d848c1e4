package mapping

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-list",
		Method:      http.MethodGet,
		Path:        "/api/mappings",
		Summary:     "List finance mappings visible to the caller",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) searchOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-search",
		Method:      http.MethodGet,
		Path:        "/api/mappings/search",
		Summary:     "Search finance mappings",
		Description: "Filters by free text, brand and paging. Admins search across all users.",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-create",
		Method:      http.MethodPost,
		Path:        "/api/mappings",
		Summary:     "Create a finance mapping",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-get",
		Method:      http.MethodGet,
		Path:        "/api/mappings/{id}",
		Summary:     "Get one finance mapping",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-update",
		Method:      http.MethodPut,
		Path:        "/api/mappings/{id}",
		Summary:     "Update a finance mapping",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "mappings-delete",
		Method:      http.MethodDelete,
		Path:        "/api/mappings/{id}",
		Summary:     "Delete a finance mapping and its detail rows",
		Tags:        []string{"mappings"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
