package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/valveworks/valve-design-suite/internal/models"
)

// ErrUserNotFound is returned for lookups of unknown users.
var ErrUserNotFound = errors.New("user not found")

// DefaultSuperadmin are the bootstrap credentials seeded on first run.
var DefaultSuperadmin = models.CreateUserRequest{
	Username:  "superadmin",
	Password:  "Super@123",
	Role:      models.RoleSuperadmin,
	FirstName: "Super",
	LastName:  "Admin",
}

const userColumns = `id, username, pwd_hash, salt_hex, iterations, role, first_name, last_name, created_at`

// UserStore persists user accounts in the users table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PwdHash, &u.SaltHex, &u.Iterations,
		&u.Role, &u.FirstName, &u.LastName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// Create inserts a new user with a freshly hashed password.
func (s *UserStore) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errors.New("username and password are required")
	}
	role := req.Role
	if !models.ValidRole(role) {
		role = models.RoleUser
	}
	hashHex, saltHex, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, pwd_hash, salt_hex, iterations, role, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		username, hashHex, saltHex, PBKDF2Iterations, role,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	return scanUser(row)
}

// GetByUsername looks a user up by exact username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetByID looks a user up by id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// List returns all users ordered by username.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of req. A non-empty password is
// re-hashed with a fresh salt.
func (s *UserStore) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Password != nil && *req.Password != "" {
		hashHex, saltHex, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PwdHash, u.SaltHex, u.Iterations = hashHex, saltHex, PBKDF2Iterations
	}
	if req.Role != nil && models.ValidRole(*req.Role) {
		u.Role = *req.Role
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET pwd_hash = $2, salt_hex = $3, iterations = $4, role = $5,
		    first_name = $6, last_name = $7
		WHERE id = $1
		RETURNING `+userColumns,
		id, u.PwdHash, u.SaltHex, u.Iterations, u.Role, u.FirstName, u.LastName)
	return scanUser(row)
}

// Delete removes a user. The bootstrap superadmin account cannot be
// deleted.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Username == DefaultSuperadmin.Username {
		return errors.New("default superadmin cannot be deleted")
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// EnsureSuperadmin seeds the bootstrap superadmin account if it does
// not exist yet. Returns the account in either case.
func (s *UserStore) EnsureSuperadmin(ctx context.Context) (*models.User, error) {
	u, err := s.GetByUsername(ctx, DefaultSuperadmin.Username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	return s.Create(ctx, DefaultSuperadmin)
}
