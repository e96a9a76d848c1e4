package export

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) exportOp() huma.Operation {
	return huma.Operation{
		OperationID: "export-pinelabs-csv",
		Method:      http.MethodGet,
		Path:        "/api/export/pinelabs",
		Summary:     "Export Pine Labs detail rows as CSV",
		Description: "Streams the caller's detail rows, joined with store name and brand, as a CSV attachment.",
		Tags:        []string{"export"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
