package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountValidateMovement(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		amount  decimal.Decimal
		wantErr error
	}{
		{
			name:    "credit always allowed on active account",
			account: Account{Kind: AccountKindChecking, Balance: decimal.Zero, Active: true},
			amount:  decimal.NewFromInt(100),
			wantErr: nil,
		},
		{
			name:    "debit within balance",
			account: Account{Kind: AccountKindChecking, Balance: decimal.NewFromInt(100), Active: true},
			amount:  decimal.NewFromInt(-100),
			wantErr: nil,
		},
		{
			name:    "debit beyond balance rejected",
			account: Account{Kind: AccountKindChecking, Balance: decimal.NewFromInt(100), Active: true},
			amount:  decimal.NewFromInt(-150),
			wantErr: ErrInsufficientFunds,
		},
		{
			name: "credit account may go negative up to limit",
			account: Account{
				Kind:        AccountKindCredit,
				Balance:     decimal.Zero,
				CreditLimit: decimal.NewFromInt(500),
				Active:      true,
			},
			amount:  decimal.NewFromInt(-500),
			wantErr: nil,
		},
		{
			name: "credit account beyond limit rejected",
			account: Account{
				Kind:        AccountKindCredit,
				Balance:     decimal.NewFromInt(-100),
				CreditLimit: decimal.NewFromInt(500),
				Active:      true,
			},
			amount:  decimal.NewFromInt(-401),
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "inactive account rejects everything",
			account: Account{Kind: AccountKindChecking, Balance: decimal.NewFromInt(100), Active: false},
			amount:  decimal.NewFromInt(10),
			wantErr: ErrAccountInactive,
		},
		{
			name:    "zero amount rejected",
			account: Account{Kind: AccountKindChecking, Balance: decimal.NewFromInt(100), Active: true},
			amount:  decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.ValidateMovement(tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMovement(%s) = %v, want %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestAccountApplyMovement(t *testing.T) {
	account := Account{Balance: decimal.NewFromInt(100)}

	got := account.ApplyMovement(decimal.NewFromInt(-30))
	if !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("ApplyMovement(-30) = %s, want 70", got)
	}

	// ApplyMovement must not mutate the receiver.
	if !account.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance mutated to %s", account.Balance)
	}
}

func TestAccountKindIsValid(t *testing.T) {
	for _, kind := range []AccountKind{AccountKindChecking, AccountKindSavings, AccountKindCredit} {
		if !kind.IsValid() {
			t.Errorf("expected %q to be valid", kind)
		}
	}

	if AccountKind("money-market").IsValid() {
		t.Error("expected unknown kind to be invalid")
	}
}
