package pinelabs

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"finmap/internal/app/server/api/http/middleware/auth"
	"finmap/internal/domain/pinelabs"
)

type Handler struct {
	service    pinelabs.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service pinelabs.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.reconcileOp(), h.reconcile)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	resp, err := h.service.ListForActor(ctx, actor)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &listOutput{Body: resp}, nil
}

func (h *Handler) reconcile(ctx context.Context, input *reconcileInput) (*reconcileOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	result, err := h.service.Reconcile(ctx, actor, input.MappingID, input.Body.Details)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &reconcileOutput{
		Body: reconcileResponse{
			Status: "Ok",
			Result: *result,
		},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.DeleteDetail(ctx, actor, input.ID); err != nil {
		return nil, mapDomainError(err)
	}

	return &deleteOutput{
		Body: deleteResponse{Status: "Ok"},
	}, nil
}

func mapDomainError(err error) error {
	var applyErr *pinelabs.ApplyError
	switch {
	case errors.Is(err, pinelabs.ErrPermissionDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, pinelabs.ErrMappingNotFound),
		errors.Is(err, pinelabs.ErrDetailNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, pinelabs.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	case errors.As(err, &applyErr):
		return huma.Error500InternalServerError(err.Error())
	default:
		return err
	}
}
