// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDeleteRefreshToken_PropagatesErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	boom := errors.New("disk I/O error")
	mock.ExpectExec("DELETE FROM refresh_tokens WHERE token_hash = ").
		WithArgs("tok").
		WillReturnError(boom)

	n, err := New(db).DeleteRefreshToken(context.Background(), "tok")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRefreshToken_RowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM refresh_tokens WHERE token_hash = ").
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM refresh_tokens WHERE token_hash = ").
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	q := New(db)
	for _, want := range []int64{1, 0} {
		n, err := q.DeleteRefreshToken(context.Background(), "tok")
		if err != nil {
			t.Fatalf("DeleteRefreshToken: %v", err)
		}
		if n != want {
			t.Errorf("rows = %d, want %d", n, want)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRows_CountFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	boom := errors.New("database is locked")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM testimonials WHERE`).
		WithArgs(true).
		WillReturnError(boom)

	active := true
	_, _, err = New(db).ListTestimonials(context.Background(), ListTestimonialsParams{IsActive: &active})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRows_PaginationArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM clients`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT .* FROM clients ORDER BY name DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "logo", "website", "industry", "description", "featured", "is_active",
			"sort_order", "created_at", "updated_at",
		}).AddRow(21, "Acme", "", "", "", "", false, true, 0, now, now))

	items, total, err := New(db).ListClients(context.Background(), ListClientsParams{
		ListParams: ListParams{SortBy: "name", SortDesc: true, Limit: 10, Offset: 20},
	})
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(items) != 1 || items[0].Name != "Acme" {
		t.Errorf("items = %+v", items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
