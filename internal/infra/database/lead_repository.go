package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/citasalud/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, phone_canonical, COALESCE(phone2_canonical, ''),
	COALESCE(nombre, ''), COALESCE(apellidos, ''), COALESCE(codigo_postal, ''),
	COALESCE(delegacion, ''), COALESCE(fecha_nacimiento, ''), COALESCE(sexo, ''),
	status_level_1, status_level_2, cita,
	call_attempts_count, last_call_attempt, lead_status, updated_at`

func (r *LeadRepository) FindByPhone(ctx context.Context, phoneCanonical string) (*entity.Lead, error) {
	query := `
		SELECT` + leadColumns + `
		FROM leads
		WHERE phone_canonical = $1 OR phone2_canonical = $1
		LIMIT 1
	`

	row := r.DB.QueryRowContext(ctx, query, phoneCanonical)
	return scanLead(row)
}

// ApplyOutcome persiste una clasificación sobre el lead de ese teléfono.
// SELECT FOR UPDATE + UPDATE en la misma transacción: dos intakes sobre
// el mismo teléfono se serializan en el lock de fila.
//
// Strings vacíos se escriben como NULL (NULLIF): los scripts antiguos
// machacaban valores buenos con "" y eso no vuelve a pasar. Además, un
// nivel 2 NULL con el mismo nivel 1 de antes conserva el nivel 2 previo.
func (r *LeadRepository) ApplyOutcome(ctx context.Context, phoneCanonical string, change entity.OutcomeChange) (*entity.OutcomeResult, error) {
	if !entity.Nivel2Valido(change.StatusLevel1, change.StatusLevel2) {
		return nil, fmt.Errorf("nivel 2 %q no pertenece a %q", change.StatusLevel2, change.StatusLevel1)
	}

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var leadID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM leads
		WHERE phone_canonical = $1 OR phone2_canonical = $1
		LIMIT 1
		FOR UPDATE
	`, phoneCanonical).Scan(&leadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	if change.SoloIntento {
		_, err = tx.ExecContext(ctx, `
			UPDATE leads
			SET call_attempts_count = call_attempts_count + 1,
			    last_call_attempt = NOW(),
			    updated_at = NOW()
			WHERE id = $1
		`, leadID)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE leads
			SET status_level_2 = CASE
			        WHEN NULLIF($3, '') IS NULL
			             AND status_level_1 IS NOT DISTINCT FROM NULLIF($2, '')
			        THEN status_level_2
			        ELSE NULLIF($3, '')
			    END,
			    status_level_1 = NULLIF($2, ''),
			    call_attempts_count = call_attempts_count + 1,
			    last_call_attempt = NOW(),
			    updated_at = NOW()
			WHERE id = $1
		`, leadID, change.StatusLevel1, change.StatusLevel2)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &entity.OutcomeResult{LeadID: leadID, Updated: true}, nil
}

// SetCita fija la cita y el status en la misma sentencia: un lead con
// cita SIEMPRE está en "Cita Agendada".
func (r *LeadRepository) SetCita(ctx context.Context, leadID int64, cita time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE leads
		SET cita = $2,
		    status_level_1 = $3,
		    updated_at = NOW()
		WHERE id = $1
	`, leadID, cita, entity.StatusCitaAgendada)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// FixSelectedStatus: limpieza periódica. Un lead que la UI de selección
// dejó en "selected" pero que ya tiene un resultado terminal vuelve a
// "open". Devuelve cuántos se han tocado.
func (r *LeadRepository) FixSelectedStatus(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE leads
		SET lead_status = $1,
		    updated_at = NOW()
		WHERE lead_status = $2
		  AND status_level_1 IN ($3, $4, $5)
	`, entity.LeadStatusOpen, entity.LeadStatusSelected,
		entity.StatusCitaAgendada, entity.StatusNoInteresado, entity.StatusNumeroErroneo)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLead(row *sql.Row) (*entity.Lead, error) {
	var l entity.Lead
	var status1, status2 sql.NullString
	var cita, lastCall sql.NullTime

	err := row.Scan(
		&l.ID, &l.PhoneCanonical, &l.Phone2Canonical,
		&l.Nombre, &l.Apellidos, &l.CodigoPostal,
		&l.Delegacion, &l.FechaNacimiento, &l.Sexo,
		&status1, &status2, &cita,
		&l.CallAttempts, &lastCall, &l.LeadStatus, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	if status1.Valid {
		l.StatusLevel1 = &status1.String
	}
	if status2.Valid {
		l.StatusLevel2 = &status2.String
	}
	if cita.Valid {
		l.Cita = &cita.Time
	}
	if lastCall.Valid {
		l.LastCallAttempt = &lastCall.Time
	}

	return &l, nil
}
