package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrResourceNotBookable is returned when the target resource is missing,
// inactive, deleted or has its availability flag off at write time.
var ErrResourceNotBookable = errors.New("resource not bookable")

// ErrReservationNotActive is returned when a guarded write finds the
// reservation no longer in estado activa. The caller's snapshot is
// stale: another writer (a cancel or the finalizer) got there first.
var ErrReservationNotActive = errors.New("reservation no longer active")

// BusySlot is an interval already taken by an active reservation.
type BusySlot struct {
	Start time.Time `json:"fecha_inicio"`
	End   time.Time `json:"fecha_fin"`
}

// ConflictError reports the active intervals that blocked a write on a
// resource, so callers can surface them for client-side resolution.
type ConflictError struct {
	Slots []BusySlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("reservation conflicts with %d active interval(s)", len(e.Slots))
}

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservaModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id"`
	RecursoID   int64     `gorm:"column:recurso_id"`
	FechaInicio time.Time `gorm:"column:fecha_inicio"`
	FechaFin    time.Time `gorm:"column:fecha_fin"`
	Estado      string    `gorm:"column:estado"`
	Comentarios *string   `gorm:"column:comentarios"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (reservaModel) TableName() string { return "reservas" }

func toDomainReservation(m reservaModel) *domain.Reservation {
	var comment string
	if m.Comentarios != nil {
		comment = *m.Comentarios
	}

	return &domain.Reservation{
		ID:         m.ID,
		UserID:     m.UserID,
		ResourceID: m.RecursoID,
		StartTime:  m.FechaInicio,
		EndTime:    m.FechaFin,
		State:      domain.ReservationState(m.Estado),
		Comment:    comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReservaModel(r *domain.Reservation) reservaModel {
	var comentarios *string
	if r.Comment != "" {
		v := r.Comment
		comentarios = &v
	}

	return reservaModel{
		ID:          r.ID,
		UserID:      r.UserID,
		RecursoID:   r.ResourceID,
		FechaInicio: r.StartTime,
		FechaFin:    r.EndTime,
		Estado:      string(r.State),
		Comentarios: comentarios,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create persists a new reservation after re-checking, inside one
// transaction, that the resource is still bookable and that no active
// reservation overlaps [start, end). The resource row is locked FOR
// UPDATE first, so concurrent writes on the same resource serialize
// here; writes on different resources proceed in parallel.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBookableResource(tx, res.ResourceID); err != nil {
			return err
		}

		slots, err := overlappingSlots(tx, res.ResourceID, res.StartTime, res.EndTime, 0)
		if err != nil {
			return err
		}
		if len(slots) > 0 {
			return &ConflictError{Slots: slots}
		}

		m := toReservaModel(res)
		if err := tx.Create(&m).Error; err != nil {
			if isOverlapConstraintViolation(err) {
				return &ConflictError{}
			}
			return err
		}
		*res = *toDomainReservation(m)
		return nil
	})
}

// Update rewrites the mutable columns of an existing reservation under
// the same per-resource lock as Create. The overlap check excludes the
// reservation's own id. When checkConflicts is false (admin moving the
// record into a non-active state) the availability and overlap checks
// are skipped.
//
// Every legal edit starts from estado activa, so the write itself is
// guarded on it. A row that transitioned since the caller's read is
// left untouched and reported as ErrReservationNotActive; terminal
// rows are never overwritten by a stale snapshot.
func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation, checkConflicts bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if checkConflicts {
			if err := lockBookableResource(tx, res.ResourceID); err != nil {
				return err
			}

			slots, err := overlappingSlots(tx, res.ResourceID, res.StartTime, res.EndTime, res.ID)
			if err != nil {
				return err
			}
			if len(slots) > 0 {
				return &ConflictError{Slots: slots}
			}
		}

		m := toReservaModel(res)
		result := tx.Model(&reservaModel{}).
			Where("id = ? AND estado = ?", res.ID, string(domain.ReservationActive)).
			Updates(map[string]any{
				"recurso_id":   m.RecursoID,
				"fecha_inicio": m.FechaInicio,
				"fecha_fin":    m.FechaFin,
				"estado":       m.Estado,
				"comentarios":  m.Comentarios,
			})
		if result.Error != nil {
			if isOverlapConstraintViolation(result.Error) {
				return &ConflictError{}
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReservationNotActive
		}
		return nil
	})
}

// UpdateState transitions estado from one value to another. The guarded
// WHERE makes the transition atomic: it reports false when the row was
// not in the expected state anymore, which keeps the finalizer and
// concurrent cancels idempotent.
func (r *ReservationRepository) UpdateState(ctx context.Context, id int64, from, to domain.ReservationState) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&reservaModel{}).
		Where("id = ? AND estado = ?", id, string(from)).
		Update("estado", string(to))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservaModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// ListFilter narrows List results. Nil fields are ignored.
type ListFilter struct {
	State      *domain.ReservationState
	UserID     *int64
	ResourceID *int64
	From       *time.Time
	Until      *time.Time
}

func (r *ReservationRepository) List(ctx context.Context, f ListFilter) ([]domain.Reservation, error) {
	q := r.db.WithContext(ctx).Model(&reservaModel{})

	if f.State != nil {
		q = q.Where("estado = ?", string(*f.State))
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ResourceID != nil {
		q = q.Where("recurso_id = ?", *f.ResourceID)
	}
	if f.From != nil {
		q = q.Where("fecha_inicio >= ?", *f.From)
	}
	if f.Until != nil {
		q = q.Where("fecha_fin <= ?", *f.Until)
	}

	var rows []reservaModel
	if err := q.Order("fecha_inicio DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// ListExpired returns active reservations whose end instant has passed.
func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	var rows []reservaModel
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_fin < ?", string(domain.ReservationActive), now).
		Order("fecha_fin ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// HasActiveForResource reports whether any active reservation targets
// the resource. The catalog uses it to guard deactivation and deletes.
func (r *ReservationRepository) HasActiveForResource(ctx context.Context, resourceID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&reservaModel{}).
		Where("recurso_id = ? AND estado = ?", resourceID, string(domain.ReservationActive)).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func lockBookableResource(tx *gorm.DB, resourceID int64) error {
	var res recursoModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, resourceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotBookable
		}
		return err
	}
	if res.Estado != domain.ResourceActive || !res.DisponibilidadGeneral {
		return ErrResourceNotBookable
	}
	return nil
}

func overlappingSlots(tx *gorm.DB, resourceID int64, start, end time.Time, excludeID int64) ([]BusySlot, error) {
	q := tx.Model(&reservaModel{}).
		Where("recurso_id = ? AND estado = ?", resourceID, string(domain.ReservationActive)).
		Where("fecha_inicio < ? AND fecha_fin > ?", end, start)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}

	var rows []reservaModel
	if err := q.Order("fecha_inicio ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	slots := make([]BusySlot, 0, len(rows))
	for _, m := range rows {
		slots = append(slots, BusySlot{Start: m.FechaInicio, End: m.FechaFin})
	}
	return slots, nil
}

// The reservas table carries a Postgres exclusion constraint
// (idx_no_traslape) over (recurso_id, [fecha_inicio, fecha_fin)) for
// estado = 'activa'. The row lock already serializes writers; the
// constraint is the backstop when running without it (e.g. sqlite has
// neither, so the lock is the only guard there).
func isOverlapConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return (pgErr.Code == "23P01" || pgErr.Code == "23505") && pgErr.ConstraintName == "idx_no_traslape"
	}
	return false
}
