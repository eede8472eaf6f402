// store_test.go holds the sqlmock helpers shared by the store tests.
package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var (
	testUserID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	testSiteID = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")
	testTime   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// newMock opens a sqlmock database and verifies all expectations were
// met when the test ends.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "credits", "created_at", "updated_at"})
}

func siteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "title", "html_content", "template_id", "is_published",
		"slug", "custom_domain", "published_at", "created_at", "updated_at"})
}
