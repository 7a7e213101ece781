package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/domain/repository"
)

var _ repository.SalesInvoiceRepository = (*SalesInvoiceRepo)(nil)

const salesInvoiceColumns = `id, COALESCE(order_id::text, ''), kind, invoice_no, trader_invoice_no, original_invoice_no,
	original_receipt_no, refund_reason_code, customer_pin, customer_name, payment_type,
	taxable_amount, tax_amount, total_amount, status, error_message, result_code, attempts,
	receipt_no, total_receipt_no, internal_data, receipt_signature, sdc_id, mrc_no, sdc_datetime,
	COALESCE(created_by::text, ''), created_at, updated_at`

// SalesInvoiceRepo implementación de SalesInvoiceRepository (usable con pool o tx).
type SalesInvoiceRepo struct {
	q Querier
}

// NewSalesInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesInvoiceRepository(q Querier) *SalesInvoiceRepo {
	return &SalesInvoiceRepo{q: q}
}

func scanSalesInvoice(row pgx.Row) (*entity.SalesInvoice, error) {
	var inv entity.SalesInvoice
	err := row.Scan(
		&inv.ID, &inv.OrderID, &inv.Kind, &inv.InvoiceNo, &inv.TraderInvoiceNo, &inv.OriginalInvoiceNo,
		&inv.OriginalReceiptNo, &inv.RefundReasonCode, &inv.CustomerPIN, &inv.CustomerName, &inv.PaymentType,
		&inv.TaxableAmount, &inv.TaxAmount, &inv.TotalAmount, &inv.Status, &inv.ErrorMessage, &inv.ResultCode, &inv.Attempts,
		&inv.ReceiptNo, &inv.TotalReceiptNo, &inv.InternalData, &inv.ReceiptSignature, &inv.SdcID, &inv.MrcNo, &inv.SdcDateTime,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserta la factura en estado pendiente junto con sus líneas.
func (r *SalesInvoiceRepo) Create(ctx context.Context, inv *entity.SalesInvoice) error {
	query := `
		INSERT INTO sales_invoices (id, order_id, kind, invoice_no, trader_invoice_no, original_invoice_no,
			original_receipt_no, refund_reason_code, customer_pin, customer_name, payment_type,
			taxable_amount, tax_amount, total_amount, status, attempts, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, nullUUID(inv.OrderID), inv.Kind, inv.InvoiceNo, inv.TraderInvoiceNo, inv.OriginalInvoiceNo,
		inv.OriginalReceiptNo, inv.RefundReasonCode, inv.CustomerPIN, inv.CustomerName, inv.PaymentType,
		inv.TaxableAmount, inv.TaxAmount, inv.TotalAmount, inv.Status, inv.Attempts, nullUUID(inv.CreatedBy),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %d ya usado", domain.ErrDuplicate, inv.InvoiceNo)
		}
		return fmt.Errorf("insert sales invoice: %w", err)
	}
	for _, it := range inv.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_invoice_items (id, invoice_id, item_seq, catalog_id, item_cd, item_cls_cd, name,
				pkg_unit_cd, qty_unit_cd, quantity, unit_price, supply_amount, tax_type, taxable_amount,
				tax_amount, total_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			it.ID, inv.ID, it.Seq, nullUUID(it.CatalogID), it.ItemCd, it.ItemClsCd, it.Name,
			it.PkgUnitCd, it.QtyUnitCd, it.Quantity, it.UnitPrice, it.SupplyAmount, it.TaxType, it.TaxableAmount,
			it.TaxAmount, it.TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("insert sales invoice item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus líneas.
func (r *SalesInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.SalesInvoice, error) {
	return r.getOne(ctx, `SELECT `+salesInvoiceColumns+` FROM sales_invoices WHERE id = $1`, id)
}

// GetSaleByOrderID devuelve la última factura de venta del pedido.
func (r *SalesInvoiceRepo) GetSaleByOrderID(ctx context.Context, orderID string) (*entity.SalesInvoice, error) {
	return r.getOne(ctx, `SELECT `+salesInvoiceColumns+` FROM sales_invoices
		WHERE order_id = $1 AND kind = 'sale' ORDER BY created_at DESC LIMIT 1`, orderID)
}

// GetRefundOf devuelve la nota crédito que referencia la venta invoiceNo.
func (r *SalesInvoiceRepo) GetRefundOf(ctx context.Context, invoiceNo int64) (*entity.SalesInvoice, error) {
	return r.getOne(ctx, `SELECT `+salesInvoiceColumns+` FROM sales_invoices
		WHERE kind = 'refund' AND original_invoice_no = $1 ORDER BY created_at DESC LIMIT 1`, invoiceNo)
}

func (r *SalesInvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.SalesInvoice, error) {
	inv, err := scanSalesInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales invoice: %w", err)
	}
	items, err := r.items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *SalesInvoiceRepo) items(ctx context.Context, invoiceID string) ([]entity.SalesInvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, item_seq, COALESCE(catalog_id::text, ''), item_cd, item_cls_cd, name,
			pkg_unit_cd, qty_unit_cd, quantity, unit_price, supply_amount, tax_type, taxable_amount,
			tax_amount, total_amount
		FROM sales_invoice_items WHERE invoice_id = $1 ORDER BY item_seq`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get sales invoice items: %w", err)
	}
	defer rows.Close()
	var list []entity.SalesInvoiceItem
	for rows.Next() {
		var it entity.SalesInvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Seq, &it.CatalogID, &it.ItemCd, &it.ItemClsCd, &it.Name,
			&it.PkgUnitCd, &it.QtyUnitCd, &it.Quantity, &it.UnitPrice, &it.SupplyAmount, &it.TaxType, &it.TaxableAmount,
			&it.TaxAmount, &it.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan sales invoice item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List lista facturas (sin líneas), más recientes primero.
func (r *SalesInvoiceRepo) List(ctx context.Context, f repository.SalesInvoiceFilter) ([]*entity.SalesInvoice, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + salesInvoiceColumns + ` FROM sales_invoices
		WHERE ($1 = '' OR kind = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Kind, f.Status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesInvoice
	for rows.Next() {
		inv, err := scanSalesInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateSubmission guarda el resultado del envío a la KRA.
func (r *SalesInvoiceRepo) UpdateSubmission(ctx context.Context, inv *entity.SalesInvoice) error {
	query := `
		UPDATE sales_invoices SET status = $2, error_message = $3, result_code = $4, attempts = $5,
			receipt_no = $6, total_receipt_no = $7, internal_data = $8, receipt_signature = $9,
			sdc_id = $10, mrc_no = $11, sdc_datetime = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Status, inv.ErrorMessage, inv.ResultCode, inv.Attempts,
		inv.ReceiptNo, inv.TotalReceiptNo, inv.InternalData, inv.ReceiptSignature,
		inv.SdcID, inv.MrcNo, inv.SdcDateTime, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales invoice submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLines reescribe las líneas ya guardadas y los totales de la cabecera.
// Usar dentro de una transacción (TxRunner.RunEtims).
func (r *SalesInvoiceRepo) UpdateLines(ctx context.Context, inv *entity.SalesInvoice) error {
	for _, it := range inv.Items {
		_, err := r.q.Exec(ctx, `
			UPDATE sales_invoice_items SET item_cd = $2, item_cls_cd = $3, tax_type = $4,
				pkg_unit_cd = $5, qty_unit_cd = $6, supply_amount = $7, taxable_amount = $8,
				tax_amount = $9, total_amount = $10
			WHERE id = $1`,
			it.ID, it.ItemCd, it.ItemClsCd, it.TaxType, it.PkgUnitCd, it.QtyUnitCd,
			it.SupplyAmount, it.TaxableAmount, it.TaxAmount, it.TotalAmount)
		if err != nil {
			return fmt.Errorf("update sales invoice item: %w", err)
		}
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_invoices SET taxable_amount = $2, tax_amount = $3, total_amount = $4, updated_at = $5
		WHERE id = $1`,
		inv.ID, inv.TaxableAmount, inv.TaxAmount, inv.TotalAmount, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales invoice totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
