package alarm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, alarm Alarm) (Alarm, error)
	Get(ctx context.Context, userId int, alarmId string) (Alarm, error)
	// GetAll returns the user's alarms ordered by date and time. from and to
	// are optional inclusive date bounds; empty means unbounded.
	GetAll(ctx context.Context, userId int, from, to string) ([]Alarm, error)
	Update(ctx context.Context, userId int, alarm Alarm) (bool, error)
	Delete(ctx context.Context, userId int, alarmId string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewAlarmRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, alarm Alarm) (Alarm, error) {
	query := `INSERT INTO alarm (uid, user_id, date, time, enabled, sound, volume, snooze_minutes, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, query, alarm.ID, userId, alarm.Date, alarm.Time,
		alarm.Enabled, alarm.Sound, alarm.Volume, alarm.SnoozeMinutes, now, now)
	if err != nil {
		err := fmt.Errorf("could not store alarm: %w", err)
		log.Error(err)
		return Alarm{}, err
	}
	alarm.CreatedAt = time.UnixMilli(now)
	alarm.UpdatedAt = time.UnixMilli(now)
	return alarm, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, alarmId string) (Alarm, error) {
	query := `SELECT uid, date, time, enabled, sound, volume, snooze_minutes, created_at, updated_at
				FROM alarm WHERE user_id = ? AND uid = ?`
	row := r.db.QueryRowContext(ctx, query, userId, alarmId)

	var a Alarm
	var createdAtMillis, updatedAtMillis int64
	err := row.Scan(&a.ID, &a.Date, &a.Time, &a.Enabled, &a.Sound, &a.Volume,
		&a.SnoozeMinutes, &createdAtMillis, &updatedAtMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return Alarm{}, ErrAlarmNotFound
	} else if err != nil {
		err := fmt.Errorf("could not scan alarm: %w", err)
		log.Error(err)
		return Alarm{}, err
	}
	a.CreatedAt = time.UnixMilli(createdAtMillis)
	a.UpdatedAt = time.UnixMilli(updatedAtMillis)
	return a, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int, from, to string) ([]Alarm, error) {
	query := `SELECT uid, date, time, enabled, sound, volume, snooze_minutes, created_at, updated_at
				FROM alarm WHERE user_id = ?`
	args := []any{userId}
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY date, time, uid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query alarms: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	alarms := make([]Alarm, 0, 10)
	for rows.Next() {
		var a Alarm
		var createdAtMillis, updatedAtMillis int64
		if err := rows.Scan(&a.ID, &a.Date, &a.Time, &a.Enabled, &a.Sound, &a.Volume,
			&a.SnoozeMinutes, &createdAtMillis, &updatedAtMillis); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		a.CreatedAt = time.UnixMilli(createdAtMillis)
		a.UpdatedAt = time.UnixMilli(updatedAtMillis)
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

func (r *RepoImpl) Update(ctx context.Context, userId int, alarm Alarm) (bool, error) {
	query := `UPDATE alarm SET date = ?, time = ?, enabled = ?, sound = ?, volume = ?, snooze_minutes = ?, updated_at = ?
				WHERE uid = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, alarm.Date, alarm.Time, alarm.Enabled,
		alarm.Sound, alarm.Volume, alarm.SnoozeMinutes, time.Now().UnixMilli(), alarm.ID, userId)
	if err != nil {
		err := fmt.Errorf("could not update alarm: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, alarmId string) (bool, error) {
	query := `DELETE FROM alarm WHERE uid = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, alarmId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete alarm: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
