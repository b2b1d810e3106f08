package db

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectSchema(mock sqlmock.Sqlmock) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS posts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS favorites").
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestMigrateUp_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectSchema(mock)

	mock.ExpectExec(regexp.QuoteMeta("ADD COLUMN IF NOT EXISTS target_kind")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ADD COLUMN IF NOT EXISTS target_id")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// two legacy rows backfilled
	mock.ExpectExec(`UPDATE favorites\s+SET target_kind = 'post',\s+target_id\s+= post_id`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("ALTER COLUMN target_kind SET NOT NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER COLUMN target_id SET NOT NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// one post favorite written without the mirror
	mock.ExpectExec(`UPDATE favorites\s+SET post_id = target_id\s+WHERE target_kind = 'post'\s+AND post_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, name := range []string{"chk_favorites_legacy_mirror", "chk_favorites_legacy_mirror_v0"} {
		mock.ExpectExec(regexp.QuoteMeta("DROP CONSTRAINT IF EXISTS " + name)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	for _, name := range []string{
		"chk_favorites_target_kind",
		"uq_favorites_actor_target",
		"chk_favorites_no_self",
		"chk_favorites_legacy_mirror_v1",
	} {
		mock.ExpectExec(regexp.QuoteMeta("ADD CONSTRAINT " + name)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_posts_created_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_posts_author_id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_favorites_target").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = MigrateUp(db)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_UsersTableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnError(sql.ErrConnDone)

	err = MigrateUp(db)
	assert.Equal(t, sql.ErrConnDone, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_BackfillError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectSchema(mock)
	mock.ExpectExec("ADD COLUMN IF NOT EXISTS target_kind").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ADD COLUMN IF NOT EXISTS target_id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE favorites").
		WillReturnError(sql.ErrTxDone)

	err = MigrateUp(db)
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMirrorConstraint_RequiresPostID(t *testing.T) {
	name, def := mirrorConstraint()
	assert.Equal(t, "chk_favorites_legacy_mirror_v1", name)
	assert.Contains(t, def, "target_kind = 'post' AND post_id IS NOT NULL AND post_id = target_id")
	assert.Contains(t, def, "target_kind <> 'post' AND post_id IS NULL")
	assert.NotContains(t, staleMirrorConstraints(), name)
}

func TestMigrateUp_MirrorBackfillError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectSchema(mock)
	for _, stmt := range polymorphic {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(mirrorBackfill)).WillReturnError(sql.ErrConnDone)

	err = MigrateUp(db)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DROP TABLE IF EXISTS favorites").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS posts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, MigrateDown(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddConstraint(t *testing.T) {
	stmt := addConstraint("favorites", "chk_x", "CHECK (a > 0)")
	assert.Contains(t, stmt, "WHERE conname = 'chk_x'")
	assert.Contains(t, stmt, "ALTER TABLE favorites ADD CONSTRAINT chk_x CHECK (a > 0);")
}
