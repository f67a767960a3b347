package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/account-service/internal/domain"
)

var columns = []string{
	"id", "name", "email", "password_hash", "role", "is_active", "is_blocked", "is_verified",
	"is_kyc_completed", "is_2fa_enabled", "refresh_token", "verify_token", "verify_token_expiry",
	"forgot_password_token", "forgot_password_token_expiry", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*AccountRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewAccountRepo(db)
	repo.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return repo, mock
}

func accountRowValues(id, email string, hash string, verifyToken driver.Value) []driver.Value {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "A", email, hash, "USER", false, false, false,
		false, false, nil, verifyToken, nil,
		nil, nil, created, created,
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*INSERT INTO accounts \(id, name, email.*\)\s+VALUES \(\$1,.*\$17\)\s+RETURNING id, name`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(accountRowValues("id-1", "a@x.com", "h", "vt")...))

	a := domain.NewAccount("A", "a@x.com")
	a.ID = "id-1"
	a.PasswordHash = "h"
	a.VerifyToken = "vt"

	got, err := repo.Insert(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "vt", got.VerifyToken)
	assert.Empty(t, got.RefreshToken)
	assert.True(t, got.VerifyTokenExpiry.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("db down"))

	_, err := repo.Insert(context.Background(), domain.NewAccount("A", "a@x.com"))
	assert.True(t, domain.Is(err, "db_unavailable"))
}

func TestGetByEmail_FoundAndNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)FROM accounts\s+WHERE email = \$1\s+ORDER BY created_at\s+LIMIT 1`
	mock.ExpectQuery(q).WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(accountRowValues("id-1", "a@x.com", "h", nil)...))
	mock.ExpectQuery(q).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)
	assert.Equal(t, domain.RoleUser, got.Role)

	_, err = repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.True(t, domain.Is(err, "account_not_found"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySideToken_PicksColumn(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE forgot_password_token = \$1`).WithArgs("rt").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(accountRowValues("id-1", "a@x.com", "h", nil)...))

	got, err := repo.GetBySideToken(context.Background(), domain.TokenReset, "rt")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	// empty token never reaches the database
	_, err = repo.GetBySideToken(context.Background(), domain.TokenVerify, "")
	assert.True(t, domain.Is(err, "account_not_found"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE id = \$1`).WithArgs("id-1").WillReturnError(errors.New("conn reset"))

	_, err := repo.GetByID(context.Background(), "id-1")
	assert.True(t, domain.Is(err, "db_unavailable"))
}

func TestUpdate_BuildsSetClauseAndReturnsPostImage(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	values := accountRowValues("id-1", "a@x.com", "h", nil)
	values[5] = true // is_active

	mock.ExpectQuery(`(?s)UPDATE accounts\s+SET is_active = \$1, refresh_token = \$2, updated_at = \$3\s+WHERE id = \$4\s+RETURNING`).
		WithArgs(true, nil, sqlmock.AnyArg(), "id-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(values...))

	got, err := repo.Update(context.Background(), "id-1", domain.AccountPatch{
		IsActive:     domain.Ptr(true),
		RefreshToken: domain.Ptr(""),
	})
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoRows_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE accounts`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "ghost", domain.AccountPatch{IsBlocked: domain.Ptr(true)})
	assert.True(t, domain.Is(err, "account_not_found"))
}

func TestFind_FiltersAndStripsHash(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)FROM accounts\s+WHERE role IN \(\$1\) AND created_at >= \$2 AND is_verified IN \(\$3, \$4\)\s+ORDER BY created_at`).
		WithArgs("USER", from, true, false).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(accountRowValues("id-1", "a@x.com", "h1", nil)...).
			AddRow(accountRowValues("id-2", "b@x.com", "h2", nil)...))

	got, err := repo.Find(context.Background(), domain.AccountFilter{
		Roles:       []domain.Role{domain.RoleUser},
		CreatedFrom: &from,
		Verified:    []bool{true, false},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Empty(t, a.PasswordHash)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NoFilter(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM accounts\s+ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.Find(context.Background(), domain.AccountFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildWhere_Empty(t *testing.T) {
	where, args := buildWhere(domain.AccountFilter{})
	assert.Equal(t, "", where)
	assert.Nil(t, args)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	err = NewAccountRepo(db).Ping(context.Background())
	assert.True(t, domain.Is(err, "db_unavailable"))
}

type stubHasher struct{}

func (stubHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func TestSeedAdmin_SkipsExisting(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("root@x.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(accountRowValues("id-1", "root@x.com", "h", nil)...))

	SeedAdmin(context.Background(), repo, stubHasher{}, "root@x.com", "pw")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdmin_InsertsWhenMissing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE email = \$1`).WithArgs("root@x.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(accountRowValues("id-9", "root@x.com", "hashed:pw", nil)...))

	SeedAdmin(context.Background(), repo, stubHasher{}, "root@x.com", "pw")
	require.NoError(t, mock.ExpectationsWereMet())
}
