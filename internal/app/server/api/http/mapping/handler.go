package mapping

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"finmap/internal/app/server/api/http/middleware/auth"
	"finmap/internal/domain/mapping"
)

type Handler struct {
	service    mapping.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service mapping.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.searchOp(), h.search)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var (
		resp mapping.ListResponse
		err  error
	)
	if input.All {
		resp, err = h.service.ListAll(ctx, actor)
	} else {
		resp, err = h.service.List(ctx, actor)
	}
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &listOutput{Body: resp}, nil
}

func (h *Handler) search(ctx context.Context, input *listInput) (*searchOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	mappings, err := h.service.Search(ctx, actor, mapping.SearchCriteria{
		Term:   input.Term,
		Brand:  input.Brand,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &searchOutput{
		Body: searchResponse{
			Mappings: mappings,
			Total:    len(mappings),
		},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	m := mapping.Mapping{
		StoreName: input.Body.StoreName,
		Brand:     input.Body.Brand,
		Financier: input.Body.Financier,
		StoreCode: input.Body.StoreCode,
		MID:       input.Body.MID,
		Requester: input.Body.Requester,
	}

	mappingID, err := h.service.Create(ctx, actor, &m)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &output{
		Body: response{ID: mappingID, Status: "Ok"},
	}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	m, err := h.service.Get(ctx, actor, input.ID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &getOutput{Body: *m}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	m := mapping.Mapping{
		ID:        input.ID,
		StoreName: input.Body.StoreName,
		Brand:     input.Body.Brand,
		Financier: input.Body.Financier,
		StoreCode: input.Body.StoreCode,
		MID:       input.Body.MID,
		Requester: input.Body.Requester,
	}

	if err := h.service.Update(ctx, actor, &m); err != nil {
		return nil, mapDomainError(err)
	}

	return &output{
		Body: response{ID: input.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*output, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, actor, input.ID); err != nil {
		return nil, mapDomainError(err)
	}

	return &output{
		Body: response{Status: "Ok"},
	}, nil
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, mapping.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, mapping.ErrPermissionDenied):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, mapping.ErrInvalidData):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, mapping.ErrDuplicate):
		return huma.Error409Conflict(err.Error())
	default:
		return err
	}
}
