package main

import (
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowershop/internal/sqlinline"
)

func TestMigrateUpAppliesSchemaOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists.*schema_migrations").
		WithArgs(schemaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("create table if not exists users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("insert into schema_migrations").WithArgs(schemaVersion).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var out bytes.Buffer
	require.NoError(t, run(db, "up", &out))
	assert.Contains(t, out.String(), "applied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUpSkipsAppliedSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists.*schema_migrations").
		WithArgs(schemaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	var out bytes.Buffer
	require.NoError(t, run(db, "up", &out))
	assert.Contains(t, out.String(), "already applied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUpRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists.*schema_migrations").
		WithArgs(schemaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("create table if not exists users").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = run(db, "up", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select version from schema_migrations").
		WithArgs(schemaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(schemaVersion))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqlinline.QDropSchema)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("delete from schema_migrations").WithArgs(schemaVersion).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var out bytes.Buffer
	require.NoError(t, run(db, "down", &out))
	assert.Contains(t, out.String(), "rolled back")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectExec("create table if not exists schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, run(db, "sideways", &bytes.Buffer{}))
}

func TestSchemaStoresZonedTimestamps(t *testing.T) {
	bare := regexp.MustCompile(`\btimestamp\b`)
	assert.False(t, bare.MatchString(sqlinline.QSchema), "columns must be timestamptz")
	assert.Regexp(t, `created_at timestamptz not null default now\(\)`, sqlinline.QSchema)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`applied_at timestamptz not null default now\(\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select exists.*schema_migrations").
		WithArgs(schemaVersion).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, run(db, "up", &bytes.Buffer{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
