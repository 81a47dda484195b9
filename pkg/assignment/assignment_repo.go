package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	// Store inserts the assignment, deduplicating on (user, pattern, date):
	// when an identical binding already exists, the existing record is
	// returned instead of an error.
	Store(ctx context.Context, userId int, assignment Assignment) (Assignment, error)
	Get(ctx context.Context, userId int, assignmentId string) (Assignment, error)
	// GetAll returns the user's assignments in arrival order. from and to
	// are optional inclusive date bounds; empty means unbounded.
	GetAll(ctx context.Context, userId int, from, to string) ([]Assignment, error)
	Delete(ctx context.Context, userId int, assignmentId string) (bool, error)
	DeleteByPattern(ctx context.Context, userId int, patternId string) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewAssignmentRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, assignment Assignment) (Assignment, error) {
	query := `INSERT INTO assignment (uid, user_id, pattern_uid, date, note, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (user_id, pattern_uid, date) DO NOTHING`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, assignment.ID, userId, assignment.PatternID,
		assignment.Date, assignment.Note, now.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store assignment: %w", err)
		log.Error(err)
		return Assignment{}, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Assignment{}, err
	}
	if rowsAffected == 0 {
		// Duplicate (pattern, date); hand back the record that won.
		return r.getByBinding(ctx, userId, assignment.PatternID, assignment.Date)
	}
	assignment.CreatedAt = time.UnixMilli(now.UnixMilli())
	return assignment, nil
}

func (r *RepoImpl) Get(ctx context.Context, userId int, assignmentId string) (Assignment, error) {
	query := `SELECT uid, pattern_uid, date, note, created_at
				FROM assignment WHERE user_id = ? AND uid = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userId, assignmentId))
}

func (r *RepoImpl) getByBinding(ctx context.Context, userId int, patternId, date string) (Assignment, error) {
	query := `SELECT uid, pattern_uid, date, note, created_at
				FROM assignment WHERE user_id = ? AND pattern_uid = ? AND date = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userId, patternId, date))
}

func (r *RepoImpl) scanOne(row *sql.Row) (Assignment, error) {
	var a Assignment
	var createdAtMillis int64
	err := row.Scan(&a.ID, &a.PatternID, &a.Date, &a.Note, &createdAtMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, ErrAssignmentNotFound
	} else if err != nil {
		err := fmt.Errorf("could not scan assignment: %w", err)
		log.Error(err)
		return Assignment{}, err
	}
	a.CreatedAt = time.UnixMilli(createdAtMillis)
	return a, nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int, from, to string) ([]Assignment, error) {
	query := `SELECT uid, pattern_uid, date, note, created_at
				FROM assignment WHERE user_id = ?`
	args := []any{userId}
	if from != "" {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY created_at, uid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query assignments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	assignments := make([]Assignment, 0, 10)
	for rows.Next() {
		var a Assignment
		var createdAtMillis int64
		if err := rows.Scan(&a.ID, &a.PatternID, &a.Date, &a.Note, &createdAtMillis); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		a.CreatedAt = time.UnixMilli(createdAtMillis)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, assignmentId string) (bool, error) {
	query := `DELETE FROM assignment WHERE uid = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, assignmentId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete assignment: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *RepoImpl) DeleteByPattern(ctx context.Context, userId int, patternId string) (int, error) {
	query := `DELETE FROM assignment WHERE user_id = ? AND pattern_uid = ?`
	result, err := r.db.ExecContext(ctx, query, userId, patternId)
	if err != nil {
		err := fmt.Errorf("could not delete assignments of pattern %s: %w", patternId, err)
		log.Error(err)
		return 0, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}
