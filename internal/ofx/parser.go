package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/model"
)

// PaymentMethodBankAccount is used for every transaction of a bank statement.
const PaymentMethodBankAccount = "bank_account"

// MerchantTagType labels the tag carrying the cleaned merchant name.
const MerchantTagType = "merchant"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// typeCategories maps OFX transaction types that imply a category.
var typeCategories = map[string]string{
	"INT":    "Interest",
	"DIV":    "Interest",
	"FEE":    "Bank Fees",
	"SRVCHG": "Bank Fees",
	"ATM":    "Cash & ATM",
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Close SGML opening tags that end a line without '>'
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns canonical transactions.
// Credits become income and debits expenses, both with positive values.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bankStmts++
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txn, err := p.convertTransaction(ofxTx, PaymentMethodBankAccount, nil)
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, txn)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ccStmts++
		card := cardFor(string(stmt.CCAcctFrom.AcctID))
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txn, err := p.convertTransaction(ofxTx, model.PaymentMethodCreditCard, &card)
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, txn)
		}
	}

	slog.Debug("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// cardFor identifies a card by a hash of its account number so the full
// number never leaves the parser.
func cardFor(accountID string) model.Card {
	last4 := accountID
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return model.Card{
		ID:    fmt.Sprintf("card-%08x", common.HashString(accountID)),
		Last4: last4,
	}
}

// convertTransaction converts an OFX transaction to our model. card is
// nil for bank statements.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, paymentMethod string, card *model.Card) (model.Transaction, error) {
	id := string(ofxTx.FiTID)

	// OFX uses negative amounts for debits
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(4))
	if err != nil {
		return model.Transaction{}, common.NewMalformedTransactionError(id, "value", err)
	}
	if ofxTx.DtPosted.IsZero() {
		return model.Transaction{}, common.NewMalformedTransactionError(id, "date", fmt.Errorf("DTPOSTED is missing"))
	}

	txnType := model.TypeExpense
	if amount.IsPositive() {
		txnType = model.TypeIncome
	}

	txn := model.Transaction{
		ID:            id,
		Type:          txnType,
		Value:         amount.Abs(),
		Date:          ofxTx.DtPosted.Time,
		PaymentMethod: paymentMethod,
		Category:      typeCategories[fmt.Sprintf("%v", ofxTx.TrnType)],
	}

	if merchant := p.extractMerchantName(ofxTx); merchant != "" {
		txn.Tags = []model.Tag{{Type: MerchantTagType, Name: merchant}}
	}

	if card != nil {
		txn.Installment = &model.InstallmentInfo{
			Modality:     model.ModalityCash,
			Count:        1,
			PurchaseDate: txn.Date,
			Card:         *card,
		}
	}

	return txn, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"COMPRA CARTAO ",
		"PIX RECEBIDO ",
		"PIX ENVIADO ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
