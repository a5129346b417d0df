package domain_test

import (
	"testing"

	"github.com/appclub-tech/Billog-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Balance(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    decimal.Decimal
	}{
		{
			name: "asset balance is credits minus debits",
			account: domain.Account{
				Code:          domain.AccountCodeAsset,
				CreditsPosted: decimal.NewFromInt(150),
				DebitsPosted:  decimal.NewFromInt(50),
			},
			want: decimal.NewFromInt(100),
		},
		{
			name: "liability balance is debits minus credits",
			account: domain.Account{
				Code:          domain.AccountCodeLiability,
				DebitsPosted:  decimal.NewFromInt(80),
				CreditsPosted: decimal.NewFromInt(30),
			},
			want: decimal.NewFromInt(50),
		},
		{
			name: "asset overdrawn by adjustments goes negative",
			account: domain.Account{
				Code:          domain.AccountCodeAsset,
				CreditsPosted: decimal.NewFromInt(20),
				DebitsPosted:  decimal.NewFromInt(35),
			},
			want: decimal.NewFromInt(-15),
		},
		{
			name:    "fresh account is zero",
			account: domain.Account{Code: domain.AccountCodeLiability},
			want:    decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.account.Balance()), "got %s", tt.account.Balance())
		})
	}
}

func TestAccount_PendingBalance(t *testing.T) {
	acc := domain.Account{
		Code:           domain.AccountCodeLiability,
		DebitsPending:  decimal.NewFromInt(40),
		CreditsPending: decimal.NewFromInt(15),
	}
	assert.True(t, decimal.NewFromInt(25).Equal(acc.PendingBalance()))
}

func TestTransferFlags_Has(t *testing.T) {
	f := domain.FlagPending
	assert.True(t, f.Has(domain.FlagPending))
	assert.False(t, f.Has(domain.FlagPostPending))
	assert.False(t, domain.TransferFlags(0).Has(domain.FlagPending))
}

func TestCodes_Valid(t *testing.T) {
	assert.True(t, domain.AccountCodeAsset.Valid())
	assert.True(t, domain.AccountCodeLiability.Valid())
	assert.False(t, domain.AccountCode(0).Valid())

	assert.True(t, domain.TransferCodeExpenseSplit.Valid())
	assert.True(t, domain.TransferCodeSettlement.Valid())
	assert.True(t, domain.TransferCodeAdjustment.Valid())
	assert.False(t, domain.TransferCode(42).Valid())

	assert.True(t, domain.SplitEqual.Valid())
	assert.False(t, domain.SplitPolicy("HALVSIES").Valid())
}

func TestCurrencyByCode(t *testing.T) {
	thb, err := domain.CurrencyByCode("THB")
	assert.NoError(t, err)
	assert.Equal(t, int32(764), thb.Ledger)
	assert.Equal(t, int32(2), thb.Exponent)

	jpy, err := domain.CurrencyByCode("JPY")
	assert.NoError(t, err)
	assert.Equal(t, int32(0), jpy.Exponent)

	_, err = domain.CurrencyByCode("XXX")
	assert.Error(t, err)

	back, err := domain.CurrencyByLedger(764)
	assert.NoError(t, err)
	assert.Equal(t, "THB", back.Code)
}
