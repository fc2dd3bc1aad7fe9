package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/ingest"
	"github.com/Veraticus/cashflow/internal/model"
)

const listTransactionsQuery = `
	SELECT id, type, value, date, payment_method, category, tags,
		modality, installments_count, total_amount, purchase_date, card_id, card_last4
	FROM transactions
	ORDER BY date, id
`

type transactionRow struct {
	category          sql.NullString
	tags              sql.NullString
	modality          sql.NullString
	totalAmount       sql.NullString
	purchaseDate      sql.NullString
	cardID            sql.NullString
	cardLast4         sql.NullString
	installmentsCount sql.NullInt64
	id                string
	txnType           string
	value             string
	date              string
	paymentMethod     string
}

// ListTransactions returns every ledger transaction in canonical form,
// oldest first. A row that cannot be interpreted fails the whole call.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, listTransactionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var r transactionRow
		if err := rows.Scan(
			&r.id, &r.txnType, &r.value, &r.date, &r.paymentMethod, &r.category, &r.tags,
			&r.modality, &r.installmentsCount, &r.totalAmount, &r.purchaseDate, &r.cardID, &r.cardLast4,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn, err := r.toModel()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

func (r transactionRow) toModel() (model.Transaction, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(r.value))
	if err != nil {
		return model.Transaction{}, common.NewMalformedTransactionError(r.id, "value", err)
	}
	date, err := ingest.ParseDate(r.date)
	if err != nil {
		return model.Transaction{}, common.NewMalformedTransactionError(r.id, "date", err)
	}

	txn := model.Transaction{
		ID:            r.id,
		Type:          model.TransactionType(r.txnType),
		Value:         value,
		Date:          date,
		PaymentMethod: r.paymentMethod,
		Category:      strings.TrimSpace(r.category.String),
	}

	if r.tags.Valid {
		tags, err := ingest.ParseTags([]byte(r.tags.String))
		if err != nil {
			return model.Transaction{}, common.NewMalformedTransactionError(r.id, "tags", err)
		}
		txn.Tags = tags
	}

	if r.modality.Valid || r.installmentsCount.Valid || r.cardID.Valid {
		info, err := r.installment(date)
		if err != nil {
			return model.Transaction{}, err
		}
		txn.Installment = info
	}

	if err := txn.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

func (r transactionRow) installment(date time.Time) (*model.InstallmentInfo, error) {
	info := &model.InstallmentInfo{
		Count:        1,
		PurchaseDate: date,
		Card:         model.Card{ID: r.cardID.String, Last4: r.cardLast4.String},
	}
	if r.installmentsCount.Valid {
		info.Count = int(r.installmentsCount.Int64)
	}
	info.Modality = ingest.ModalityOrDefault(r.modality.String, info.Count)
	if r.purchaseDate.Valid && strings.TrimSpace(r.purchaseDate.String) != "" {
		purchase, err := ingest.ParseDate(r.purchaseDate.String)
		if err != nil {
			return nil, common.NewMalformedTransactionError(r.id, "purchase_date", err)
		}
		info.PurchaseDate = purchase
	}
	if r.totalAmount.Valid {
		if total, err := decimal.NewFromString(strings.TrimSpace(r.totalAmount.String)); err == nil {
			info.TotalAmount = decimal.NewNullDecimal(total)
		} else {
			common.LogDebug("ignoring unparseable installment total", common.Fields{"id": r.id})
		}
	}
	return info, nil
}
