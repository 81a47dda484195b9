package pattern

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, pattern Pattern) (string, error)
	Get(ctx context.Context, userId int, patternId string) (Pattern, error)
	GetAll(ctx context.Context, userId int) ([]Pattern, error)
	Update(ctx context.Context, userId int, pattern Pattern) (bool, error)
	Delete(ctx context.Context, userId int, patternId string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewPatternRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, pattern Pattern) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	now := time.Now().UnixMilli()
	query := `INSERT INTO pattern (uid, user_id, name, description, color, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query, pattern.ID, userId, pattern.Name, pattern.Description, pattern.Color, now, now)
	if err != nil {
		err := fmt.Errorf("could not store pattern: %w", err)
		log.Error(err)
		return "", err
	}

	if err := insertTimes(ctx, tx, pattern.ID, pattern.Times); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return pattern.ID, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, patternId string) (Pattern, error) {
	query := `SELECT uid, name, description, color, created_at, updated_at
				FROM pattern WHERE user_id = ? AND uid = ?`
	var p Pattern
	var createdAtMillis, updatedAtMillis int64
	err := r.db.QueryRowContext(ctx, query, userId, patternId).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &createdAtMillis, &updatedAtMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return Pattern{}, ErrPatternNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get pattern: %w", err)
		log.Error(err)
		return Pattern{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAtMillis)
	p.UpdatedAt = time.UnixMilli(updatedAtMillis)

	times, err := r.timesFor(ctx, []string{p.ID})
	if err != nil {
		return Pattern{}, err
	}
	p.Times = times[p.ID]
	return p, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Pattern, error) {
	query := `SELECT uid, name, description, color, created_at, updated_at
				FROM pattern WHERE user_id = ? ORDER BY created_at, uid`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query patterns: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	patterns := make([]Pattern, 0, 10)
	ids := make([]string, 0, 10)
	for rows.Next() {
		var p Pattern
		var createdAtMillis, updatedAtMillis int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &createdAtMillis, &updatedAtMillis); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		p.CreatedAt = time.UnixMilli(createdAtMillis)
		p.UpdatedAt = time.UnixMilli(updatedAtMillis)
		patterns = append(patterns, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	times, err := r.timesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range patterns {
		patterns[i].Times = times[patterns[i].ID]
	}
	return patterns, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, pattern Pattern) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	query := `UPDATE pattern SET name = ?, description = ?, color = ?, updated_at = ?
				WHERE uid = ? AND user_id = ?`
	result, err := tx.ExecContext(ctx, query, pattern.Name, pattern.Description, pattern.Color,
		time.Now().UnixMilli(), pattern.ID, userId)
	if err != nil {
		err := fmt.Errorf("could not update pattern: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected == 0 {
		return false, nil
	}

	// Alarm times are replaced wholesale; their order is the pattern order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_time WHERE pattern_uid = ?`, pattern.ID); err != nil {
		err := fmt.Errorf("could not clear pattern times: %w", err)
		log.Error(err)
		return false, err
	}
	if err := insertTimes(ctx, tx, pattern.ID, pattern.Times); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, patternId string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_time WHERE pattern_uid = ?`, patternId); err != nil {
		err := fmt.Errorf("could not delete pattern times: %w", err)
		log.Error(err)
		return false, err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM pattern WHERE uid = ? AND user_id = ?`, patternId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete pattern: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return rowsAffected > 0, nil
}

func insertTimes(ctx context.Context, tx *sql.Tx, patternId string, times []AlarmTime) error {
	query := `INSERT INTO pattern_time (pattern_uid, position, time, sound, volume, gradual_increase, snooze_minutes)
				VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	for i, t := range times {
		if _, err := stmt.ExecContext(ctx, patternId, i, t.Time, t.Sound, t.Volume, t.GradualIncrease, t.SnoozeMinutes); err != nil {
			err := fmt.Errorf("could not store alarm time: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}

// timesFor loads alarm times for the given pattern ids, keyed by pattern id
// and ordered by their position within the pattern.
func (r *RepoImpl) timesFor(ctx context.Context, patternIds []string) (map[string][]AlarmTime, error) {
	result := make(map[string][]AlarmTime, len(patternIds))
	if len(patternIds) == 0 {
		return result, nil
	}

	query := `SELECT pattern_uid, time, sound, volume, gradual_increase, snooze_minutes
				FROM pattern_time WHERE pattern_uid IN (`
	args := make([]any, 0, len(patternIds))
	for i, id := range patternIds {
		if i > 0 {
			query += ", "
		}
		query += "?"
		args = append(args, id)
	}
	query += `) ORDER BY pattern_uid, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query pattern times: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var patternId string
		var t AlarmTime
		if err := rows.Scan(&patternId, &t.Time, &t.Sound, &t.Volume, &t.GradualIncrease, &t.SnoozeMinutes); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		result[patternId] = append(result[patternId], t)
	}
	return result, rows.Err()
}
