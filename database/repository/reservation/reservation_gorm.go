// File: database/repository/reservation/reservation_gorm.go
package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carbook/database"
	"carbook/models"
	"carbook/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const exclusionViolation = "23P01"

// postgresConstraints enforces non-overlap of confirmed reservations in the database itself.
const postgresConstraints = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_window_order') THEN
		ALTER TABLE reservations ADD CONSTRAINT reservations_window_order CHECK (start_at < end_at);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
		ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (vehicle_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&)
			WHERE (status = 'confirmed');
	END IF;
END $$;`

// GormReservationRepo implements ReservationRepository on Postgres or SQLite.
// On Postgres an exclusion constraint rejects overlapping confirmed rows; the
// in-process vehicle lock covers SQLite, which has no such constraint.
type GormReservationRepo struct {
	db    *gorm.DB
	locks *utils.KeyedMutex
}

func NewGormReservationRepo(db *gorm.DB) (*GormReservationRepo, error) {
	if err := db.AutoMigrate(&models.Reservation{}); err != nil {
		return nil, fmt.Errorf("migrate reservations: %w", err)
	}
	repo := &GormReservationRepo{db: db, locks: utils.NewKeyedMutex()}
	if repo.isPostgres() {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
			return nil, fmt.Errorf("enable btree_gist: %w", err)
		}
		if err := db.Exec(postgresConstraints).Error; err != nil {
			return nil, fmt.Errorf("create reservation constraints: %w", err)
		}
	}
	return repo, nil
}

func (r *GormReservationRepo) isPostgres() bool {
	return r.db.Dialector.Name() == "postgres"
}

func overlapQuery(tx *gorm.DB, vehicleID string, start, end time.Time) *gorm.DB {
	return tx.Model(&models.Reservation{}).
		Where("vehicle_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			vehicleID, models.ReservationConfirmed, models.NormalizeTime(end), models.NormalizeTime(start))
}

func (r *GormReservationRepo) HasConflict(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	var n int64
	if err := overlapQuery(r.db.WithContext(ctx), vehicleID, start, end).Count(&n).Error; err != nil {
		return false, database.ClassifyNetError("check conflict", err)
	}
	return n > 0, nil
}

func (r *GormReservationRepo) Insert(ctx context.Context, res *models.Reservation) error {
	row := normalized(res)
	unlock, err := r.locks.LockContext(ctx, row.VehicleID)
	if err != nil {
		return err
	}
	defer unlock()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.isPostgres() {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", row.VehicleID).Error; err != nil {
				return err
			}
		}
		var n int64
		if err := overlapQuery(tx, row.VehicleID, row.StartAt, row.EndAt).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return conflictFor(&row)
		}
		return tx.Create(&row).Error
	})
	if err == nil {
		return nil
	}

	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return conflictFor(&row)
	}
	return database.ClassifyNetError("insert reservation", err)
}

func (r *GormReservationRepo) take(ctx context.Context, query string, arg string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).Where(query, arg).Take(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, database.ClassifyNetError("get reservation", err)
	}
	return &res, nil
}

func (r *GormReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *GormReservationRepo) GetBySession(ctx context.Context, sessionID string) (*models.Reservation, error) {
	if sessionID == "" {
		return nil, models.ErrNotFound
	}
	return r.take(ctx, "session_id = ?", sessionID)
}

func (r *GormReservationRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Order("start_at ASC").Find(&out).Error
	if err != nil {
		return nil, database.ClassifyNetError("list reservations", err)
	}
	return out, nil
}

func (r *GormReservationRepo) UpdateStatus(ctx context.Context, id string, from, to models.ReservationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return database.ClassifyNetError("update reservation status", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GormReservationRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
