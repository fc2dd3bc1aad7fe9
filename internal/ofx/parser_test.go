package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/cashflow/internal/model"
)

// Statement fixtures in SGML form, as exported by most banks.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20261002090000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>341
<ACCTID>0001987654
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260901000000[0:GMT]
<DTEND>20260930235959[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260905120000[0:GMT]
<TRNAMT>-38.90
<FITID>2026090501
<NAME>COMPRA CARTAO PADARIA SAO JORGE
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260912120000[0:GMT]
<TRNAMT>-412.35
<FITID>2026091201
<NAME>SUPERMERCADO PAO DE ACUCAR
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20260920120000[0:GMT]
<TRNAMT>-1800.00
<FITID>2026092001
<CHECKNUM>0457
<NAME>CHEQUE 0457
</STMTTRN>
<STMTTRN>
<TRNTYPE>INT
<DTPOSTED>20260930120000[0:GMT]
<TRNAMT>12.47
<FITID>2026093001
<NAME>RENDIMENTO POUPANCA
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>5320.18
<DTASOF>20260930235959[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20261002090000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>BRL
<CCACCTFROM>
<ACCTID>5162000000004321
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20260901000000[0:GMT]
<DTEND>20260930235959[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260908120000[0:GMT]
<TRNAMT>-89.90
<FITID>CC2026090801
<NAME>IFOOD *RESTAURANTE
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260915120000[0:GMT]
<TRNAMT>-55.90
<FITID>CC2026091501
<NAME>SPOTIFY BRASIL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-145.80
<DTASOF>20260930235959[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 4,
			expectedError: false,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
			expectedError: false,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			reader := strings.NewReader(tt.ofxData)

			transactions, err := parser.ParseFile(context.Background(), reader)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, transactions, tt.expectedCount)
				assert.NoError(t, model.ValidateAll(transactions))
			}
		})
	}
}

func TestParseBankTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleBankOFX)

	transactions, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, transactions, 4)

	tx1 := transactions[0]
	assert.Equal(t, "2026090501", tx1.ID)
	assert.Equal(t, model.TypeExpense, tx1.Type)
	assert.True(t, decimal.RequireFromString("38.90").Equal(tx1.Value))
	assert.Equal(t, PaymentMethodBankAccount, tx1.PaymentMethod)
	assert.Equal(t, []model.Tag{{Type: MerchantTagType, Name: "PADARIA SAO JORGE"}}, tx1.Tags)
	assert.Nil(t, tx1.Installment)
	assert.False(t, tx1.IsCreditCard())
	assert.Equal(t, 2026, tx1.Date.Year())
	assert.Equal(t, time.September, tx1.Date.Month())
	assert.Equal(t, 5, tx1.Date.Day())

	cheque := transactions[2]
	assert.Equal(t, "2026092001", cheque.ID)
	assert.True(t, decimal.NewFromInt(1800).Equal(cheque.Value))

	interest := transactions[3]
	assert.Equal(t, model.TypeIncome, interest.Type)
	assert.True(t, decimal.RequireFromString("12.47").Equal(interest.Value))
	assert.Equal(t, "Interest", interest.Category)
}

func TestParseCreditCardTransactions(t *testing.T) {
	parser := NewParser()
	reader := strings.NewReader(sampleCreditCardOFX)

	transactions, err := parser.ParseFile(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	tx1 := transactions[0]
	assert.Equal(t, "CC2026090801", tx1.ID)
	assert.Equal(t, model.TypeExpense, tx1.Type)
	assert.True(t, decimal.RequireFromString("89.90").Equal(tx1.Value))
	assert.Equal(t, model.PaymentMethodCreditCard, tx1.PaymentMethod)
	assert.True(t, tx1.IsCreditCard())
	assert.False(t, tx1.IsInstallmentPurchase())

	require.NotNil(t, tx1.Installment)
	assert.Equal(t, model.ModalityCash, tx1.Installment.Modality)
	assert.Equal(t, 1, tx1.Installment.Count)
	assert.Equal(t, "4321", tx1.Installment.Card.Last4)
	assert.NotContains(t, tx1.Installment.Card.ID, "5162000000004321")
	assert.Equal(t, tx1.Date, tx1.Installment.PurchaseDate)

	tx2 := transactions[1]
	assert.Equal(t, "CC2026091501", tx2.ID)
	assert.Equal(t, tx1.Installment.Card, tx2.Installment.Card)
}

func TestParseFile_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	input := "\n\n  <SEVERITY>Info</SEVERITY>\n<CODE\n<NAME>X\n"
	got := parser.preprocessOFX(input)

	assert.True(t, strings.HasPrefix(got, "<SEVERITY>INFO</SEVERITY>"))
	assert.Contains(t, got, "\n<CODE>\n")
	assert.Contains(t, got, "\n<NAME>X\n")
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		memo     string
		expected string
	}{
		{
			name:     "remove POS prefix",
			input:    "POS PURCHASE DROGASIL",
			expected: "DROGASIL",
		},
		{
			name:     "remove DEBIT CARD prefix",
			input:    "DEBIT CARD PURCHASE HORTIFRUTI",
			expected: "HORTIFRUTI",
		},
		{
			name:     "remove pix prefix",
			input:    "PIX ENVIADO Padaria Central",
			expected: "Padaria Central",
		},
		{
			name:     "keep clean name",
			input:    "SPOTIFY BRASIL",
			expected: "SPOTIFY BRASIL",
		},
		{
			name:     "trim whitespace",
			input:    "  MAGAZINE LUIZA  ",
			expected: "MAGAZINE LUIZA",
		},
		{
			name:     "generic name falls back to memo",
			input:    "PAYMENT",
			memo:     "SABESP",
			expected: "SABESP",
		},
		{
			name:     "leading date removed",
			input:    "01/15 MERCADO LIVRE",
			expected: "MERCADO LIVRE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := ofxgo.Transaction{
				Name: ofxgo.String(tt.input),
				Memo: ofxgo.String(tt.memo),
			}
			result := parser.extractMerchantName(tx)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCardFor(t *testing.T) {
	card := cardFor("5162000000004321")
	assert.Equal(t, "4321", card.Last4)
	assert.Regexp(t, `^card-[0-9a-f]{8}$`, card.ID)
	assert.Equal(t, card, cardFor("5162000000004321"))
	assert.NotEqual(t, card.ID, cardFor("5500000000000004").ID)
	assert.Equal(t, "12", cardFor("12").Last4)
}
