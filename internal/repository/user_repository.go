package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/model"
	"github.com/TaiNguyen-05/Nhom7-DatVeXemPhim/internal/utils"
	"github.com/go-sql-driver/mysql"
)

// UserRepo provides access to the users and user_profiles tables.  A profile
// row is created together with every user; the two inserts share one
// transaction so an account can never exist without a role.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user plus its customer profile and returns the new id.
// The email is normalized to lowercase.  Duplicate emails map to
// ErrEmailExists (MySQL error 1062 on the unique key).
func (r *UserRepo) Create(ctx context.Context, email, password string, phone, address *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?, ?)",
		email, hash)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_profiles (user_id, user_type, phone, address) VALUES (?, ?, ?, ?)",
		id, model.UserTypeCustomer, phone, address); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email together with the profile's
// user_type.  sql.ErrNoRows is passed through when no user matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, model.UserType, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	var role string
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at, p.user_type
		 FROM users u JOIN user_profiles p ON p.user_id = u.id
		 WHERE u.email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &role)
	return u, model.UserType(role), err
}

// GetByID fetches a user by primary key together with the profile role.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, model.UserType, error) {
	var u model.User
	var role string
	err := r.DB.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.password_hash, u.created_at, u.updated_at, p.user_type
		 FROM users u JOIN user_profiles p ON p.user_id = u.id
		 WHERE u.id = ? LIMIT 1`,
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &role)
	return u, model.UserType(role), err
}

// GetProfile loads the full profile row for a user.
func (r *UserRepo) GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error) {
	const q = `SELECT user_id, user_type, phone, address, date_of_birth, created_at, updated_at
	           FROM user_profiles WHERE user_id = ?`
	var p model.UserProfile
	var role string
	var phone, address sql.NullString
	var dob sql.NullTime
	err := r.DB.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID, &role, &phone, &address, &dob, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.UserType = model.UserType(role)
	if phone.Valid {
		v := phone.String
		p.Phone = &v
	}
	if address.Valid {
		v := address.String
		p.Address = &v
	}
	if dob.Valid {
		v := dob.Time
		p.DateOfBirth = &v
	}
	return &p, nil
}

// UpdateProfile writes the mutable profile fields.  The role is deliberately
// not updatable here; role changes are an administrative concern.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, phone, address *string) error {
	const q = `UPDATE user_profiles SET phone = ?, address = ? WHERE user_id = ?`
	_, err := r.DB.ExecContext(ctx, q, phone, address, userID)
	return err
}
