package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/instasorteo/contest-stats/internal/db"
	"github.com/instasorteo/contest-stats/internal/domain"
)

const (
	contestQuery = `SELECT id_concurso, nombre_evento, fecha_cierre FROM concursos WHERE id_concurso = ?`

	totalsQuery = `SELECT COUNT(*) AS participantes, COALESCE(SUM(total_comentarios),0) AS total_comentarios FROM conteos WHERE id_concurso=?`

	topParticipantsQuery = `
		SELECT u.nick, c.total_comentarios
		FROM conteos c JOIN usuarios u ON u.id_usuario=c.id_usuario
		WHERE c.id_concurso=?
		ORDER BY c.total_comentarios DESC, c.total_menciones DESC, u.nick ASC
		LIMIT 2`

	winnersQuery = `
		SELECT g.premio, g.motivo, g.posicion_top, u.nick
		FROM ganadores g JOIN usuarios u ON u.id_usuario=g.id_usuario
		WHERE g.id_concurso=?
		ORDER BY g.creado_en ASC`
)

type mysqlStatsRepository struct {
	pool *db.SharedPool
}

// NewMySQLStatsRepository returns a StatsRepository that runs every query on
// the shared pool, creating it on the first call.
func NewMySQLStatsRepository(pool *db.SharedPool) StatsRepository {
	return &mysqlStatsRepository{pool: pool}
}

func (r *mysqlStatsRepository) conn() (*sql.DB, error) {
	conn, err := r.pool.Get()
	if err != nil {
		return nil, fmt.Errorf("acquire pool: %w", err)
	}
	return conn, nil
}

func (r *mysqlStatsRepository) GetContest(ctx context.Context, contestID int64) (*domain.Contest, error) {
	conn, err := r.conn()
	if err != nil {
		return nil, err
	}

	var (
		c        domain.Contest
		closesAt sql.NullTime
	)
	err = conn.QueryRowContext(ctx, contestQuery, contestID).Scan(&c.ID, &c.Name, &closesAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrContestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contest: %w", err)
	}
	if closesAt.Valid {
		t := closesAt.Time.UTC()
		c.ClosesAt = &t
	}
	return &c, nil
}

func (r *mysqlStatsRepository) GetTotals(ctx context.Context, contestID int64) (*domain.Totals, error) {
	conn, err := r.conn()
	if err != nil {
		return nil, err
	}

	// SUM over an INT column is DECIMAL in MySQL; the driver converts it on scan.
	var t domain.Totals
	if err := conn.QueryRowContext(ctx, totalsQuery, contestID).Scan(&t.Participants, &t.Comments); err != nil {
		return nil, fmt.Errorf("get totals: %w", err)
	}
	return &t, nil
}

func (r *mysqlStatsRepository) TopParticipants(ctx context.Context, contestID int64) ([]domain.TopParticipant, error) {
	conn, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, topParticipantsQuery, contestID)
	if err != nil {
		return nil, fmt.Errorf("top participants: %w", err)
	}
	defer rows.Close()

	top := []domain.TopParticipant{}
	for rows.Next() {
		var p domain.TopParticipant
		if err := rows.Scan(&p.Nick, &p.Comments); err != nil {
			return nil, fmt.Errorf("scan top participant: %w", err)
		}
		top = append(top, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top participants: %w", err)
	}
	return top, nil
}

func (r *mysqlStatsRepository) Winners(ctx context.Context, contestID int64) ([]domain.Winner, error) {
	conn, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, winnersQuery, contestID)
	if err != nil {
		return nil, fmt.Errorf("winners: %w", err)
	}
	defer rows.Close()

	winners := []domain.Winner{}
	for rows.Next() {
		w, err := scanWinner(rows)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("winners: %w", err)
	}
	return winners, nil
}

// ---- helpers ----

func scanWinner(rows *sql.Rows) (domain.Winner, error) {
	var (
		w        domain.Winner
		reason   sql.NullString
		position sql.NullInt64
	)
	if err := rows.Scan(&w.Prize, &reason, &position, &w.Nick); err != nil {
		return domain.Winner{}, fmt.Errorf("scan winner: %w", err)
	}
	if reason.Valid {
		w.Reason = &reason.String
	}
	if position.Valid {
		w.TopPosition = &position.Int64
	}
	return w, nil
}
