package mapping

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"finmap/internal/domain/user"
)

// ChildDeleter removes all detail rows under a mapping. Satisfied by the
// pinelabs repository; keeps deletes cascading child-first so no detail
// row ever references a missing mapping.
type ChildDeleter interface {
	DeleteByMapping(ctx context.Context, mappingID int) error
}

type Servicer interface {
	List(ctx context.Context, actor user.Actor) (ListResponse, error)
	ListAll(ctx context.Context, actor user.Actor) (ListResponse, error)
	Search(ctx context.Context, actor user.Actor, criteria SearchCriteria) ([]Mapping, error)
	Get(ctx context.Context, actor user.Actor, mappingID int) (*Mapping, error)
	Create(ctx context.Context, actor user.Actor, m *Mapping) (int, error)
	Update(ctx context.Context, actor user.Actor, m *Mapping) error
	Delete(ctx context.Context, actor user.Actor, mappingID int) error
}

type Service struct {
	repo    Repository
	details ChildDeleter
	log     *slog.Logger
}

func NewService(repo Repository, details ChildDeleter, log *slog.Logger) Servicer {
	return &Service{
		repo:    repo,
		details: details,
		log:     log.With("component", "mapping_service"),
	}
}

// List returns the actor's own mappings.
func (s *Service) List(ctx context.Context, actor user.Actor) (ListResponse, error) {
	mappings, err := s.repo.List(ctx, actor.ID)
	if err != nil {
		s.log.Error("failed to list mappings", "user_id", actor.ID, "error", err)
		return ListResponse{}, fmt.Errorf("list mappings: %w", err)
	}
	return toListResponse(mappings), nil
}

// ListAll returns every mapping regardless of owner. Admin only.
func (s *Service) ListAll(ctx context.Context, actor user.Actor) (ListResponse, error) {
	if !actor.Role.IsAdmin() {
		return ListResponse{}, ErrPermissionDenied
	}

	mappings, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("failed to list all mappings", "error", err)
		return ListResponse{}, fmt.Errorf("list all mappings: %w", err)
	}
	return toListResponse(mappings), nil
}

func (s *Service) Search(ctx context.Context, actor user.Actor, criteria SearchCriteria) ([]Mapping, error) {
	userID := actor.ID
	if actor.Role.IsAdmin() {
		userID = 0 // no owner filter
	}

	mappings, err := s.repo.Search(ctx, userID, criteria)
	if err != nil {
		s.log.Error("failed to search mappings", "user_id", actor.ID, "error", err)
		return nil, fmt.Errorf("search mappings: %w", err)
	}
	return mappings, nil
}

func (s *Service) Get(ctx context.Context, actor user.Actor, mappingID int) (*Mapping, error) {
	m, err := s.repo.Get(ctx, mappingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to get mapping", "mapping_id", mappingID, "error", err)
		return nil, fmt.Errorf("get mapping: %w", err)
	}

	if !actor.Role.IsAdmin() && m.UserID != actor.ID {
		return nil, ErrPermissionDenied
	}
	return m, nil
}

// Create validates required fields, rejects duplicates and stamps the
// actor as owner.
func (s *Service) Create(ctx context.Context, actor user.Actor, m *Mapping) (int, error) {
	if m.StoreName == "" || m.Brand == "" {
		return 0, ErrInvalidData
	}

	m.UserID = actor.ID

	if dupID, err := s.repo.FindDuplicate(ctx, m); err == nil {
		s.log.Warn("duplicate mapping rejected",
			"store_name", m.StoreName, "brand", m.Brand, "existing_id", dupID)
		return 0, fmt.Errorf("%w: mapping %d", ErrDuplicate, dupID)
	} else if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("duplicate check: %w", err)
	}

	mappingID, err := s.repo.Create(ctx, m)
	if err != nil {
		s.log.Error("failed to create mapping", "user_id", actor.ID, "error", err)
		return 0, fmt.Errorf("create mapping: %w", err)
	}

	s.log.Info("mapping created", "mapping_id", mappingID, "user_id", actor.ID)
	return mappingID, nil
}

func (s *Service) Update(ctx context.Context, actor user.Actor, m *Mapping) error {
	current, err := s.Get(ctx, actor, m.ID)
	if err != nil {
		return err
	}

	// Owner never changes, whatever the caller sent.
	m.UserID = current.UserID

	if err := s.repo.Update(ctx, m); err != nil {
		s.log.Error("failed to update mapping", "mapping_id", m.ID, "error", err)
		return fmt.Errorf("update mapping: %w", err)
	}

	s.log.Info("mapping updated", "mapping_id", m.ID, "user_id", actor.ID)
	return nil
}

// Delete removes a mapping and all of its detail rows, children first.
func (s *Service) Delete(ctx context.Context, actor user.Actor, mappingID int) error {
	if _, err := s.Get(ctx, actor, mappingID); err != nil {
		return err
	}

	if err := s.details.DeleteByMapping(ctx, mappingID); err != nil {
		s.log.Error("failed to delete mapping details", "mapping_id", mappingID, "error", err)
		return fmt.Errorf("delete mapping details: %w", err)
	}

	if err := s.repo.Delete(ctx, mappingID); err != nil {
		s.log.Error("failed to delete mapping", "mapping_id", mappingID, "error", err)
		return fmt.Errorf("delete mapping: %w", err)
	}

	s.log.Info("mapping deleted", "mapping_id", mappingID, "user_id", actor.ID)
	return nil
}

func toListResponse(mappings []Mapping) ListResponse {
	items := make([]Item, len(mappings))
	for i, m := range mappings {
		items[i] = Item{
			ID:        m.ID,
			StoreName: m.StoreName,
			Brand:     m.Brand,
			Financier: m.Financier,
			StoreCode: m.StoreCode,
			MID:       m.MID,
			Requester: m.Requester,
		}
	}
	return ListResponse{Mappings: items, Total: len(items)}
}
