package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valveworks/valve-design-suite/internal/models"
)

func newUserStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), mock
}

func userRows(u models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "pwd_hash", "salt_hex", "iterations",
		"role", "first_name", "last_name", "created_at",
	}).AddRow(u.ID, u.Username, u.PwdHash, u.SaltHex, u.Iterations,
		u.Role, u.FirstName, u.LastName, u.CreatedAt)
}

func TestUserCreate(t *testing.T) {
	store, mock := newUserStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg(), PBKDF2Iterations,
			models.RoleUser, "Alice", "Smith").
		WillReturnRows(userRows(models.User{
			ID: id, Username: "alice", Role: models.RoleUser,
			FirstName: "Alice", LastName: "Smith",
			Iterations: PBKDF2Iterations, CreatedAt: time.Now(),
		}))

	u, err := store.Create(context.Background(), models.CreateUserRequest{
		Username: " alice ", Password: "pw", Role: "bogus",
		FirstName: "Alice", LastName: "Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateRequiresCredentials(t *testing.T) {
	store, _ := newUserStore(t)
	_, err := store.Create(context.Background(), models.CreateUserRequest{Username: "alice"})
	assert.Error(t, err)
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	store, mock := newUserStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDeleteRefusesDefaultSuperadmin(t *testing.T) {
	store, mock := newUserStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(id).
		WillReturnRows(userRows(models.User{
			ID: id, Username: DefaultSuperadmin.Username, Role: models.RoleSuperadmin,
			Iterations: PBKDF2Iterations, CreatedAt: time.Now(),
		}))

	err := store.Delete(context.Background(), id)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperadminAlreadySeeded(t *testing.T) {
	store, mock := newUserStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs(DefaultSuperadmin.Username).
		WillReturnRows(userRows(models.User{
			ID: id, Username: DefaultSuperadmin.Username, Role: models.RoleSuperadmin,
			Iterations: PBKDF2Iterations, CreatedAt: time.Now(),
		}))

	u, err := store.EnsureSuperadmin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperadmin, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperadminSeeds(t *testing.T) {
	store, mock := newUserStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs(DefaultSuperadmin.Username).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(DefaultSuperadmin.Username, sqlmock.AnyArg(), sqlmock.AnyArg(),
			PBKDF2Iterations, models.RoleSuperadmin, "Super", "Admin").
		WillReturnRows(userRows(models.User{
			ID: id, Username: DefaultSuperadmin.Username, Role: models.RoleSuperadmin,
			Iterations: PBKDF2Iterations, CreatedAt: time.Now(),
		}))

	u, err := store.EnsureSuperadmin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
