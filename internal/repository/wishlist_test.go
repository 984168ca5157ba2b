package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdrop/dealdrop/internal/model"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

var wishlistColumns = []string{"id", "account_id", "deal_id", "alert_enabled", "created_at"}

func sampleEntry(id, dealID string) model.WishlistEntry {
	return model.WishlistEntry{
		ID:        id,
		AccountID: "acct-1",
		DealID:    dealID,
		CreatedAt: testNow,
	}
}

func TestListWishlistByAccount(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	first := sampleEntry("w1", "deal-1")
	second := sampleEntry("w2", "deal-2")
	second.AlertEnabled = true

	mock.ExpectQuery(`SELECT id, account_id, deal_id, alert_enabled, created_at\s+FROM wishlist_entries`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(wishlistColumns).
			AddRow(first.ID, first.AccountID, first.DealID, first.AlertEnabled, first.CreatedAt).
			AddRow(second.ID, second.AccountID, second.DealID, second.AlertEnabled, second.CreatedAt))

	entries, err := repo.ListWishlistByAccount(context.Background(), "acct-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "deal-1", entries[0].DealID)
	assert.Equal(t, "deal-2", entries[1].DealID)
	assert.True(t, entries[1].AlertEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWishlistByAccount_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	mock.ExpectQuery(`FROM wishlist_entries`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(wishlistColumns))

	entries, err := repo.ListWishlistByAccount(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInsertWishlistEntry(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	entry := sampleEntry("w1", "deal-1")

	mock.ExpectExec(`INSERT INTO wishlist_entries`).
		WithArgs(entry.ID, entry.AccountID, entry.DealID, entry.AlertEnabled, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.InsertWishlistEntry(context.Background(), &entry)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWishlistEntry_Duplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	entry := sampleEntry("w1", "deal-1")

	mock.ExpectExec(`INSERT INTO wishlist_entries`).
		WithArgs(entry.ID, entry.AccountID, entry.DealID, entry.AlertEnabled, entry.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "wishlist_entries_account_deal_idx"})

	err := repo.InsertWishlistEntry(context.Background(), &entry)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestInsertWishlistEntry_UnknownDeal(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	entry := sampleEntry("w1", "deal-nope")

	mock.ExpectExec(`INSERT INTO wishlist_entries`).
		WithArgs(entry.ID, entry.AccountID, entry.DealID, entry.AlertEnabled, entry.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "wishlist_entries_deal_id_fkey"})

	err := repo.InsertWishlistEntry(context.Background(), &entry)
	assert.ErrorIs(t, err, ErrDealMissing)
}

func TestInsertWishlistEntry_OtherFailurePropagates(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	entry := sampleEntry("w1", "deal-1")
	storageErr := errors.New("connection reset")

	mock.ExpectExec(`INSERT INTO wishlist_entries`).
		WithArgs(entry.ID, entry.AccountID, entry.DealID, entry.AlertEnabled, entry.CreatedAt).
		WillReturnError(storageErr)

	err := repo.InsertWishlistEntry(context.Background(), &entry)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEntry)
	assert.NotErrorIs(t, err, ErrDealMissing)
	assert.ErrorIs(t, err, storageErr)
}

func TestDeleteWishlistEntry(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	mock.ExpectExec(`DELETE FROM wishlist_entries`).
		WithArgs("acct-1", "deal-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	removed, err := repo.DeleteWishlistEntry(context.Background(), "acct-1", "deal-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestDeleteWishlistEntry_NothingToDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewWithDB(mock)

	mock.ExpectExec(`DELETE FROM wishlist_entries`).
		WithArgs("acct-1", "deal-gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	removed, err := repo.DeleteWishlistEntry(context.Background(), "acct-1", "deal-gone")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
