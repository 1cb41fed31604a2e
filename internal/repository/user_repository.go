package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gayratovi/online-exam-system/internal/model"
)

// UserRepository handles student and staff directory data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetStudentByUsername retrieves a student account for login.
func (r *UserRepository) GetStudentByUsername(ctx context.Context, username string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, first_name, last_name, password_hash, created_at
		 FROM students WHERE username = $1`, username,
	).Scan(&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.PasswordHash, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetStaffByUsername retrieves a staff account for login.
func (r *UserRepository) GetStaffByUsername(ctx context.Context, username string) (*model.Staff, error) {
	st := &model.Staff{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, first_name, last_name, password_hash, module_id, created_at
		 FROM staff WHERE username = $1`, username,
	).Scan(&st.ID, &st.Username, &st.FirstName, &st.LastName, &st.PasswordHash, &st.ModuleID, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// IsEnrolled reports whether a student is enrolled in a module.
func (r *UserRepository) IsEnrolled(ctx context.Context, studentID, moduleID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM student_modules
		   WHERE student_id = $1 AND module_id = $2
		 )`, studentID, moduleID,
	).Scan(&exists)
	return exists, err
}

// StaffModule returns the module owned by a staff member.
func (r *UserRepository) StaffModule(ctx context.Context, staffID int) (int, error) {
	var moduleID int
	err := r.pool.QueryRow(ctx,
		`SELECT module_id FROM staff WHERE id = $1`, staffID,
	).Scan(&moduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return moduleID, nil
}

// CreateStaff inserts a staff account. Used by the create-staff CLI.
func (r *UserRepository) CreateStaff(ctx context.Context, st *model.Staff) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO staff (username, first_name, last_name, password_hash, module_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		st.Username, st.FirstName, st.LastName, st.PasswordHash, st.ModuleID,
	).Scan(&st.ID, &st.CreatedAt)
}
