package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"finmap/internal/app/server/api/http/middleware/auth"
	"finmap/internal/domain/pinelabs"
)

type Handler struct {
	details    pinelabs.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(details pinelabs.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		details:    details,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.exportOp(), h.exportDetails)
}

type exportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *Handler) exportDetails(ctx context.Context, _ *struct{}) (*exportOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.details.ListForActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	body, err := renderCSV(resp.Details)
	if err != nil {
		h.log.Error("failed to render export", "error", err)
		return nil, huma.Error500InternalServerError("export failed")
	}

	return &exportOutput{
		ContentType:        "text/csv",
		ContentDisposition: `attachment; filename="pinelabs_details.csv"`,
		Body:               body,
	}, nil
}

func renderCSV(rows []pinelabs.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "mapping_id", "store_name", "brand", "pos_id", "tid", "serial_no", "store_id"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.MappingID),
			r.StoreName,
			r.Brand,
			r.PosID,
			r.TID,
			r.SerialNo,
			r.StoreID,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
