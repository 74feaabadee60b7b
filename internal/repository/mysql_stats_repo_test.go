package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/instasorteo/contest-stats/internal/db"
	"github.com/instasorteo/contest-stats/internal/domain"
	"github.com/instasorteo/contest-stats/internal/repository"
)

func newMockRepo(t *testing.T) (repository.StatsRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	pool := db.NewSharedPool(func() (*sql.DB, error) { return conn, nil }, 10)
	return repository.NewMySQLStatsRepository(pool), mock
}

func TestMySQLStatsRepository_GetContest(t *testing.T) {
	repo, mock := newMockRepo(t)
	closes := time.Date(2025, 11, 30, 23, 59, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM concursos WHERE id_concurso = ?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id_concurso", "nombre_evento", "fecha_cierre"}).
			AddRow(5, "Fall Giveaway", closes))

	c, err := repo.GetContest(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != 5 || c.Name != "Fall Giveaway" {
		t.Fatalf("unexpected contest: %+v", c)
	}
	if c.ClosesAt == nil || !c.ClosesAt.Equal(closes) {
		t.Fatalf("expected close date %s, got %v", closes, c.ClosesAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMySQLStatsRepository_GetContest_NullCloseDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM concursos")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id_concurso", "nombre_evento", "fecha_cierre"}).
			AddRow(2, "Open ended", nil))

	c, err := repo.GetContest(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ClosesAt != nil {
		t.Fatalf("expected nil close date, got %v", c.ClosesAt)
	}
}

func TestMySQLStatsRepository_GetContest_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM concursos")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id_concurso", "nombre_evento", "fecha_cierre"}))

	_, err := repo.GetContest(context.Background(), 99)
	if !errors.Is(err, domain.ErrContestNotFound) {
		t.Fatalf("expected ErrContestNotFound, got %v", err)
	}
}

func TestMySQLStatsRepository_GetContest_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("Unknown column 'nombre_evento'")

	mock.ExpectQuery(regexp.QuoteMeta("FROM concursos")).WillReturnError(boom)

	_, err := repo.GetContest(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
	if errors.Is(err, domain.ErrContestNotFound) {
		t.Fatal("a driver failure must not look like not-found")
	}
}

func TestMySQLStatsRepository_GetTotals(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(total_comentarios),0) AS total_comentarios FROM conteos WHERE id_concurso=?")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"participantes", "total_comentarios"}).AddRow(2, 80))

	totals, err := repo.GetTotals(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Participants != 2 || totals.Comments != 80 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestMySQLStatsRepository_GetTotals_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM conteos WHERE id_concurso=?")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"participantes", "total_comentarios"}).AddRow(0, 0))

	totals, err := repo.GetTotals(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Participants != 0 || totals.Comments != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestMySQLStatsRepository_TopParticipants(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The limit is part of the statement text; only the contest id is bound.
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.total_comentarios DESC, c.total_menciones DESC, u.nick ASC") + " LIMIT 2$").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"nick", "total_comentarios"}).
			AddRow("bo", 40).
			AddRow("ana", 40))

	top, err := repo.TopParticipants(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 || top[0].Nick != "bo" || top[1].Nick != "ana" {
		t.Fatalf("unexpected top participants: %+v", top)
	}
}

func TestMySQLStatsRepository_TopParticipants_NoRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM conteos c JOIN usuarios u")).
		WillReturnRows(sqlmock.NewRows([]string{"nick", "total_comentarios"}))

	top, err := repo.TopParticipants(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top == nil || len(top) != 0 {
		t.Fatalf("expected an empty, non-nil slice, got %#v", top)
	}
}

func TestMySQLStatsRepository_Winners(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY g.creado_en ASC")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"premio", "motivo", "posicion_top", "nick"}).
			AddRow("Gift card", "top commenter", 1, "bo").
			AddRow("Sticker pack", nil, nil, "ana"))

	winners, err := repo.Winners(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(winners))
	}

	first := winners[0]
	if first.Prize != "Gift card" || first.Nick != "bo" {
		t.Fatalf("unexpected first winner: %+v", first)
	}
	if first.Reason == nil || *first.Reason != "top commenter" {
		t.Fatalf("expected reason, got %v", first.Reason)
	}
	if first.TopPosition == nil || *first.TopPosition != 1 {
		t.Fatalf("expected position 1, got %v", first.TopPosition)
	}

	second := winners[1]
	if second.Reason != nil || second.TopPosition != nil {
		t.Fatalf("expected NULL columns to stay nil, got %+v", second)
	}
}

func TestMySQLStatsRepository_Winners_RowError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM ganadores g")).
		WillReturnRows(sqlmock.NewRows([]string{"premio", "motivo", "posicion_top", "nick"}).
			AddRow("Gift card", nil, 1, "bo").
			RowError(0, errors.New("connection reset")))

	if _, err := repo.Winners(context.Background(), 5); err == nil {
		t.Fatal("expected row error to surface")
	}
}

func TestMySQLStatsRepository_PoolFailure(t *testing.T) {
	pool := db.NewSharedPool(func() (*sql.DB, error) { return nil, errors.New("bad dsn") }, 10)
	repo := repository.NewMySQLStatsRepository(pool)

	if _, err := repo.GetContest(context.Background(), 1); err == nil {
		t.Fatal("expected pool error")
	}
}
