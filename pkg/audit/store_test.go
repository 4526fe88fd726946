package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := FetchEvent{
		UserID:     "alice",
		ClientIP:   "10.0.0.1",
		PasswordID: "pass-1",
		Success:    true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"vault",           // appname
			sqlmock.AnyArg(),  // procid
			"fetch",           // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveTrashEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := TrashEvent{
		UserID:      "root",
		ClientIP:    "10.0.0.1",
		Action:      "purge",
		TrashItemID: "item-1",
		Success:     true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"vault",
			sqlmock.AnyArg(),
			"trash",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Save(CheckEvent{UserID: "alice"}); err != nil {
		t.Errorf("Save() with nil db should be a no-op, got %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")
	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("expected nil store when AUDIT_DATABASE_URL is not set")
	}
}
