package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test, named after it so tests
	// never see each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedRecurso(t *testing.T, db *gorm.DB, available bool, estado int) int64 {
	t.Helper()

	m := recursoModel{
		TipoRecursoID:         1,
		Nombre:                "Laboratorio A",
		DisponibilidadGeneral: available,
		Estado:                estado,
	}
	require.NoError(t, db.Create(&m).Error)
	return m.ID
}

func activeReservation(userID, resourceID int64, start, end time.Time) *domain.Reservation {
	return &domain.Reservation{
		UserID:     userID,
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		State:      domain.ReservationActive,
	}
}

func TestReservationRepository_Create_BackToBackAllowed(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, activeReservation(7, resID, base, base.Add(2*time.Hour))))

	// Shared endpoint, half-open intervals: no conflict.
	err := repo.Create(ctx, activeReservation(8, resID, base.Add(2*time.Hour), base.Add(3*time.Hour)))
	assert.NoError(t, err)
}

func TestReservationRepository_Create_OverlapRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, activeReservation(7, resID, base, base.Add(2*time.Hour))))

	err := repo.Create(ctx, activeReservation(8, resID, base.Add(time.Hour), base.Add(3*time.Hour)))

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Slots, 1)
	assert.WithinDuration(t, base, conflict.Slots[0].Start, time.Second)
	assert.WithinDuration(t, base.Add(2*time.Hour), conflict.Slots[0].End, time.Second)
}

func TestReservationRepository_Create_CancelledDoesNotBlock(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	first := activeReservation(7, resID, base, base.Add(2*time.Hour))
	require.NoError(t, repo.Create(ctx, first))

	ok, err := repo.UpdateState(ctx, first.ID, domain.ReservationActive, domain.ReservationCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	err = repo.Create(ctx, activeReservation(8, resID, base, base.Add(time.Hour)))
	assert.NoError(t, err)
}

func TestReservationRepository_Create_ResourceNotBookable(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	offID := seedRecurso(t, db, false, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)

	err := repo.Create(ctx, activeReservation(7, offID, base, base.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrResourceNotBookable)

	err = repo.Create(ctx, activeReservation(7, offID+100, base, base.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrResourceNotBookable)
}

func TestReservationRepository_Update_ExcludesOwnInterval(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	r := activeReservation(7, resID, base, base.Add(2*time.Hour))
	require.NoError(t, repo.Create(ctx, r))

	// Shifting within the reservation's own window must not conflict
	// with itself.
	r.StartTime = base.Add(time.Hour)
	r.EndTime = base.Add(3 * time.Hour)
	assert.NoError(t, repo.Update(ctx, r, true))
}

func TestReservationRepository_Update_ConflictWithNeighbor(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, activeReservation(7, resID, base, base.Add(2*time.Hour))))

	second := activeReservation(8, resID, base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, repo.Create(ctx, second))

	second.StartTime = base.Add(time.Hour)
	second.EndTime = base.Add(4 * time.Hour)
	err := repo.Update(ctx, second, true)

	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestReservationRepository_Update_StaleSnapshotCannotRewriteTerminal(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	r := activeReservation(7, resID, base, base.Add(2*time.Hour))
	require.NoError(t, repo.Create(ctx, r))

	snapshot, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)

	// A sweep finalizes the row between the read and the write.
	ok, err := repo.UpdateState(ctx, r.ID, domain.ReservationActive, domain.ReservationFinalized)
	require.NoError(t, err)
	require.True(t, ok)

	snapshot.EndTime = base.Add(5 * time.Hour)
	err = repo.Update(ctx, snapshot, true)
	assert.ErrorIs(t, err, ErrReservationNotActive)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationFinalized, got.State)
	assert.WithinDuration(t, base.Add(2*time.Hour), got.EndTime, time.Second)
}

func TestReservationRepository_UpdateState_Guarded(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	base := time.Date(2027, 5, 1, 10, 0, 0, 0, time.UTC)
	r := activeReservation(7, resID, base, base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, r))

	ok, err := repo.UpdateState(ctx, r.ID, domain.ReservationActive, domain.ReservationFinalized)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt finds the row already transitioned.
	ok, err = repo.UpdateState(ctx, r.ID, domain.ReservationActive, domain.ReservationFinalized)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReservationRepository_ListExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	resID := seedRecurso(t, db, true, domain.ResourceActive)
	ctx := context.Background()

	now := time.Now().UTC()
	expired := activeReservation(7, resID, now.Add(-3*time.Hour), now.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, expired))

	cancelled := activeReservation(8, resID, now.Add(-6*time.Hour), now.Add(-5*time.Hour))
	require.NoError(t, repo.Create(ctx, cancelled))
	ok, err := repo.UpdateState(ctx, cancelled.ID, domain.ReservationActive, domain.ReservationCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Create(ctx, activeReservation(9, resID, now.Add(time.Hour), now.Add(2*time.Hour))))

	rows, err := repo.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, expired.ID, rows[0].ID)
}
