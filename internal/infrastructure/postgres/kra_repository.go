package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var (
	_ repository.KRARegistrationRepository = (*KRARegistrationRepo)(nil)
	_ repository.KRATransactionRepository  = (*KRATransactionRepo)(nil)
)

const kraRegistrationColumns = `id, tin, bhf_id, device_serial, cmc_key, sdc_id, mrc_no, taxpayer_name,
	branch_name, status, result_code, result_msg, created_at`

// KRARegistrationRepo persistencia de kra_registrations.
type KRARegistrationRepo struct {
	q Querier
}

func NewKRARegistrationRepository(q Querier) *KRARegistrationRepo {
	return &KRARegistrationRepo{q: q}
}

func scanRegistration(row pgx.Row) (*entity.KRARegistration, error) {
	var k entity.KRARegistration
	err := row.Scan(&k.ID, &k.TIN, &k.BhfID, &k.DeviceSerial, &k.CmcKey, &k.SdcID, &k.MrcNo, &k.TaxpayerName,
		&k.BranchName, &k.Status, &k.ResultCode, &k.ResultMsg, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *KRARegistrationRepo) Create(ctx context.Context, k *entity.KRARegistration) error {
	query := `INSERT INTO kra_registrations (` + kraRegistrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, k.ID, k.TIN, k.BhfID, k.DeviceSerial, k.CmcKey, k.SdcID, k.MrcNo,
		k.TaxpayerName, k.BranchName, k.Status, k.ResultCode, k.ResultMsg, k.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert kra registration: %w", err)
	}
	return nil
}

// GetActive devuelve la inicialización exitosa más reciente.
func (r *KRARegistrationRepo) GetActive(ctx context.Context) (*entity.KRARegistration, error) {
	query := `SELECT ` + kraRegistrationColumns + ` FROM kra_registrations
		WHERE status = 'success' ORDER BY created_at DESC LIMIT 1`
	k, err := scanRegistration(r.q.QueryRow(ctx, query))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active kra registration: %w", err)
	}
	return k, nil
}

func (r *KRARegistrationRepo) List(ctx context.Context, limit, offset int) ([]*entity.KRARegistration, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+kraRegistrationColumns+` FROM kra_registrations
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list kra registrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.KRARegistration
	for rows.Next() {
		k, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kra registration: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

// KRATransactionRepo persistencia de kra_transactions.
type KRATransactionRepo struct {
	q Querier
}

func NewKRATransactionRepository(q Querier) *KRATransactionRepo {
	return &KRATransactionRepo{q: q}
}

func (r *KRATransactionRepo) Create(ctx context.Context, t *entity.KRATransaction) error {
	query := `
		INSERT INTO kra_transactions (id, kind, reference_id, request, response, result_code, result_msg, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Kind, t.ReferenceID, jsonOrNil(t.Request), jsonOrNil(t.Response),
		t.ResultCode, t.ResultMsg, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert kra transaction: %w", err)
	}
	return nil
}

func (r *KRATransactionRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.KRATransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, kind, reference_id, COALESCE(request::text, ''), COALESCE(response::text, ''),
			result_code, result_msg, status, created_at
		FROM kra_transactions WHERE reference_id = $1 ORDER BY created_at`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list kra transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.KRATransaction
	for rows.Next() {
		var t entity.KRATransaction
		var req, resp string
		if err := rows.Scan(&t.ID, &t.Kind, &t.ReferenceID, &req, &resp, &t.ResultCode, &t.ResultMsg, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kra transaction: %w", err)
		}
		t.Request, t.Response = []byte(req), []byte(resp)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// jsonOrNil guarda NULL en lugar de un JSONB vacío (inválido).
func jsonOrNil(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
