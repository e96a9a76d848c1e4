package pinelabs

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"finmap/internal/domain/mapping"
	"finmap/internal/domain/user"
)

type Servicer interface {
	Reconcile(ctx context.Context, actor user.Actor, mappingID int, entries []Entry) (*ReconcileResult, error)
	DeleteDetail(ctx context.Context, actor user.Actor, detailID int) error
	ListForActor(ctx context.Context, actor user.Actor) (ListResponse, error)
	Mirror() *Mirror
}

// Service owns the reconciliation of Pine Labs detail rows: given the
// client's full intended set of entries for one mapping, it diffs against
// the persisted snapshot and applies the minimal insert/update/delete plan,
// keeping the display mirror patched along the way.
type Service struct {
	repo   Repository
	owners OwnerResolver
	mirror *Mirror
	log    *slog.Logger
}

func NewService(repo Repository, owners OwnerResolver, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		mirror: NewMirror(),
		log:    log.With("component", "pinelabs_service"),
	}
}

// Mirror exposes the display cache for table rendering and search.
func (s *Service) Mirror() *Mirror {
	return s.mirror
}

// plan is the classified outcome of diffing an edit buffer against the
// snapshot.
type plan struct {
	inserts []Detail
	updates []Detail
	deletes []int
	dropped int
}

// Reconcile synchronizes the persisted detail set of one mapping with the
// edit buffer. The buffer is the complete desired state: presence of an
// existing id keeps the row alive, absence deletes it, unknown or zero ids
// become inserts when they carry any data.
//
// Authorization happens exactly once, before the snapshot fetch, and is
// fail-closed. The apply runs delete → insert → update; a failure in any
// stage aborts the remainder, restores the mirror and surfaces an
// *ApplyError naming the stage. Store mutations from completed stages
// stay applied.
func (s *Service) Reconcile(ctx context.Context, actor user.Actor, mappingID int, entries []Entry) (*ReconcileResult, error) {
	if err := s.authorize(ctx, actor, mappingID); err != nil {
		return nil, err
	}

	snapshot, err := s.repo.ListByMapping(ctx, mappingID)
	if err != nil {
		s.log.Error("snapshot fetch failed", "mapping_id", mappingID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	existingByID := make(map[int]Detail, len(snapshot))
	for _, d := range snapshot {
		existingByID[d.ID] = d
	}

	p := s.classify(mappingID, entries, existingByID)

	result, err := s.apply(ctx, actor, mappingID, p)
	if err != nil {
		return nil, err
	}

	s.log.Info("reconcile complete",
		"mapping_id", mappingID,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"dropped", result.Dropped,
	)
	return result, nil
}

// authorize is the single per-call permission gate. Admins pass outright;
// everyone else must own the mapping. Any owner-lookup failure aborts the
// call before the snapshot is fetched.
func (s *Service) authorize(ctx context.Context, actor user.Actor, mappingID int) error {
	if actor.Role.IsAdmin() {
		return nil
	}

	ownerID, err := s.owners.GetOwner(ctx, mappingID)
	if err != nil {
		if errors.Is(err, mapping.ErrNotFound) {
			return ErrMappingNotFound
		}
		// Fail closed: an indeterminate owner is no permission at all.
		s.log.Error("owner lookup failed", "mapping_id", mappingID, "error", err)
		return ErrPermissionDenied
	}

	if ownerID != actor.ID {
		s.log.Warn("reconcile denied",
			"mapping_id", mappingID, "owner_id", ownerID, "actor_id", actor.ID)
		return ErrPermissionDenied
	}
	return nil
}

// classify walks the edit buffer in input order and splits it into the
// insert/update sets, then derives deletions from snapshot ids the buffer
// no longer references.
func (s *Service) classify(mappingID int, entries []Entry, existingByID map[int]Detail) plan {
	var p plan
	matched := make(map[int]struct{}, len(existingByID))

	for _, e := range entries {
		existing, known := existingByID[e.ID]
		if e.ID == 0 || !known {
			// Unknown ids fall through to insert; a stale client id becomes
			// a fresh row rather than an error. Documented policy.
			if e.ID != 0 {
				s.log.Warn("edit buffer references unknown detail id, treating as new",
					"mapping_id", mappingID, "stale_id", e.ID)
			}
			candidate := e.detail()
			if !candidate.Meaningful() {
				p.dropped++
				continue
			}
			candidate.ID = 0
			candidate.MappingID = mappingID
			p.inserts = append(p.inserts, candidate)
			continue
		}

		matched[e.ID] = struct{}{}
		if !existing.FieldsEqual(e.detail()) {
			upd := e.detail()
			upd.MappingID = mappingID
			p.updates = append(p.updates, upd)
		}
	}

	for id := range existingByID {
		if _, ok := matched[id]; !ok {
			p.deletes = append(p.deletes, id)
		}
	}
	return p
}

// apply runs the three stages in order, patching the mirror after each
// one. The stage order matters: deletes first so inserts never collide
// with rows on their way out, updates last so they never target a row a
// previous stage removed.
func (s *Service) apply(ctx context.Context, actor user.Actor, mappingID int, p plan) (*ReconcileResult, error) {
	before := s.mirror.Snapshot()
	result := &ReconcileResult{Dropped: p.dropped}

	fail := func(stage Stage, err error) (*ReconcileResult, error) {
		s.mirror.Replace(before)
		s.log.Error("reconcile stage failed", "mapping_id", mappingID, "stage", stage, "error", err)
		return nil, &ApplyError{Stage: stage, Err: err}
	}

	if len(p.deletes) > 0 {
		if err := s.repo.DeleteBatch(ctx, p.deletes); err != nil {
			return fail(StageDelete, err)
		}
		s.mirror.Apply(Delta{Removed: p.deletes})
		result.Deleted = len(p.deletes)
		s.log.Debug("reconcile stage committed", "mapping_id", mappingID, "stage", StageDelete, "count", result.Deleted)
	}

	if len(p.inserts) > 0 {
		for i := range p.inserts {
			p.inserts[i].UserID = actor.ID
		}
		inserted, err := s.repo.InsertBatch(ctx, p.inserts)
		if err != nil {
			return fail(StageInsert, err)
		}
		added := make([]Row, len(inserted))
		for i, d := range inserted {
			// Denormalized mapping fields are unknown here; the next full
			// load fills them in.
			added[i] = Row{Detail: d}
		}
		s.mirror.Apply(Delta{Added: added})
		result.Inserted = len(inserted)
		result.Rows = append(result.Rows, inserted...)
		s.log.Debug("reconcile stage committed", "mapping_id", mappingID, "stage", StageInsert, "count", result.Inserted)
	}

	for i := range p.updates {
		upd := p.updates[i]
		if err := s.repo.Update(ctx, &upd); err != nil {
			return fail(StageUpdate, err)
		}
		s.mirror.Apply(Delta{Patched: []Detail{upd}})
		result.Updated++
		result.Rows = append(result.Rows, upd)
	}
	if result.Updated > 0 {
		s.log.Debug("reconcile stage committed", "mapping_id", mappingID, "stage", StageUpdate, "count", result.Updated)
	}

	return result, nil
}

// DeleteDetail removes a single detail row after walking the same
// ownership chain the reconciler uses: detail → mapping → owner.
func (s *Service) DeleteDetail(ctx context.Context, actor user.Actor, detailID int) error {
	detail, err := s.repo.Get(ctx, detailID)
	if err != nil {
		if errors.Is(err, ErrDetailNotFound) {
			return ErrDetailNotFound
		}
		s.log.Error("failed to get detail", "detail_id", detailID, "error", err)
		return fmt.Errorf("get detail: %w", err)
	}

	if err := s.authorize(ctx, actor, detail.MappingID); err != nil {
		return err
	}

	if err := s.repo.DeleteBatch(ctx, []int{detailID}); err != nil {
		s.log.Error("failed to delete detail", "detail_id", detailID, "error", err)
		return fmt.Errorf("delete detail: %w", err)
	}

	s.mirror.Apply(Delta{Removed: []int{detailID}})
	s.log.Info("detail deleted", "detail_id", detailID, "mapping_id", detail.MappingID)
	return nil
}

// ListForActor returns the display rows the actor may see: own rows for
// regular users, everything for admins. The mirror is refreshed with the
// result.
func (s *Service) ListForActor(ctx context.Context, actor user.Actor) (ListResponse, error) {
	var (
		rows []Row
		err  error
	)
	if actor.Role.IsAdmin() {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByOwner(ctx, actor.ID)
	}
	if err != nil {
		s.log.Error("failed to list details", "actor_id", actor.ID, "error", err)
		return ListResponse{}, fmt.Errorf("list details: %w", err)
	}

	s.mirror.Replace(rows)
	return ListResponse{Details: rows, Total: len(rows)}, nil
}
