package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/uniboe/messaging/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const summaryQ = `^SELECT p\.id, p\.full_name, p\.profile_picture_url, u\.name FROM profiles p LEFT JOIN universities u ON u\.id = p\.university_id WHERE p\.id = \$1$`

func TestGetSummary_Full(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "full_name", "profile_picture_url", "name"}).
		AddRow("u-1", "Ada Lovelace", "u-1/avatar.jpg", "University of Bologna")
	mock.ExpectQuery(summaryQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.GetSummary(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	if got.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if got.ProfilePictureURL == nil || *got.ProfilePictureURL != "u-1/avatar.jpg" {
		t.Fatalf("unexpected picture: %+v", got.ProfilePictureURL)
	}
	if got.UniversityName == nil || *got.UniversityName != "University of Bologna" {
		t.Fatalf("unexpected university: %+v", got.UniversityName)
	}
}

func TestGetSummary_NullableFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "full_name", "profile_picture_url", "name"}).
		AddRow("u-2", "Grace Hopper", nil, nil)
	mock.ExpectQuery(summaryQ).WithArgs("u-2").WillReturnRows(rows)

	got, err := repo.GetSummary(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("GetSummary error: %v", err)
	}
	if got.ProfilePictureURL != nil || got.UniversityName != nil {
		t.Fatalf("expected nil optionals, got %+v", got)
	}
}

func TestGetSummary_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(summaryQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSummary(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
