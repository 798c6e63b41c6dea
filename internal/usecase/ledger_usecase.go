package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
)

// LedgerUseCase is the ledger engine: it applies movements to accounts
// and entries, enforces balance invariants, composes two-account
// operations and performs administrative reversal. It exclusively owns
// the invariant linking Account.Balance to the account's entries.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	authority   AdminAuthority
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	authority AdminAuthority,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		authority:   authority,
	}
}

// WithRetrier sets the retrier used for transient concurrency conflicts.
func (uc *LedgerUseCase) WithRetrier(r Retrier) *LedgerUseCase {
	uc.retrier = r
	return uc
}

// WithOutbox enables transactional outbox events.
func (uc *LedgerUseCase) WithOutbox(r OutboxRepository) *LedgerUseCase {
	uc.outboxRepo = r
	return uc
}

// WithAudit enables audit logging.
func (uc *LedgerUseCase) WithAudit(r AuditRepository) *LedgerUseCase {
	uc.auditRepo = r
	return uc
}

func (uc *LedgerUseCase) run(ctx context.Context, operation func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, operation)
	}

	return operation()
}

func (uc *LedgerUseCase) newReference(prefix string) string {
	return prefix + "-" + uc.idGen.Generate()
}

// applyEntryTx applies one signed movement to a locked account: validates
// it, appends a completed entry, and moves the stored balance. The
// account is mutated in place so subsequent legs in the same transaction
// observe the new balance.
func (uc *LedgerUseCase) applyEntryTx(
	ctx context.Context,
	tx Transaction,
	account *domain.Account,
	kind domain.EntryKind,
	amount decimal.Decimal,
	description, reference, counterparty string,
	now time.Time,
) (*domain.Entry, error) {
	if err := domain.ValidateMovementAmount(amount); err != nil {
		return nil, err
	}

	if err := account.ValidateMovement(amount); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:              uc.idGen.Generate(),
		AccountID:       account.ID,
		Kind:            kind,
		Amount:          amount,
		Currency:        account.Currency,
		Description:     description,
		Reference:       reference,
		CounterpartyRef: counterparty,
		Status:          domain.EntryStatusCompleted,
		CreatedAt:       now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	newBalance := account.ApplyMovement(amount)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = now

	if err := uc.emitTx(ctx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeEntryApplied, domain.MarshalState(domain.EntryAppliedEvent{
		EntryID:   entry.ID,
		AccountID: account.ID,
		Kind:      string(kind),
		Amount:    amount.String(),
		Currency:  entry.Currency,
		Reference: reference,
	}), now); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) emitTx(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	})
}

func (uc *LedgerUseCase) auditTx(ctx context.Context, tx Transaction, actorID string, action domain.AuditAction, resourceID string, before, after any, now time.Time) error {
	if uc.auditRepo == nil {
		return nil
	}

	return uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: domain.AggregateTypeEntry,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}

// ApplyMovementInput represents input for the core movement primitive.
type ApplyMovementInput struct {
	AccountID   string
	Kind        domain.EntryKind
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
	ActorID     string
}

// ApplyMovement applies a single signed movement to an account as one
// atomic unit: one completed entry appended, the balance moved, or
// nothing at all. Mint entries are not accepted here; money creation must
// go through Mint.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input ApplyMovementInput) (*domain.Entry, error) {
	if !input.Kind.IsValid() || input.Kind == domain.EntryKindMint {
		return nil, fmt.Errorf("%w: kind %q", domain.ErrInvalidAmount, input.Kind)
	}

	if err := domain.ValidateMovementAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	reference := input.Reference
	if reference == "" {
		reference = uc.newReference(refPrefixMovement)
	}

	var entry *domain.Entry

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		if input.Currency != "" && input.Currency != account.Currency {
			return domain.ErrCurrencyMismatch
		}

		now := time.Now().UTC()

		entry, err = uc.applyEntryTx(ctx, tx, account, input.Kind, input.Amount, input.Description, reference, "", now)
		if err != nil {
			return err
		}

		if err := uc.auditTx(ctx, tx, input.ActorID, domain.AuditActionMovementApply, entry.ID, nil, entry, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	ActorID     string
}

// Deposit credits an account with external funds.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.ApplyMovement(ctx, ApplyMovementInput{
		AccountID:   input.AccountID,
		Kind:        domain.EntryKindDeposit,
		Amount:      input.Amount,
		Description: input.Description,
		Reference:   uc.newReference(refPrefixDeposit),
		ActorID:     input.ActorID,
	})
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	ActorID     string
}

// Withdraw debits an account, subject to the insufficient-funds check.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.ApplyMovement(ctx, ApplyMovementInput{
		AccountID:   input.AccountID,
		Kind:        domain.EntryKindWithdrawal,
		Amount:      input.Amount.Neg(),
		Description: input.Description,
		Reference:   uc.newReference(refPrefixWithdraw),
		ActorID:     input.ActorID,
	})
}

// PayBillInput represents input for a bill payment.
type PayBillInput struct {
	AccountID string
	BillID    string
	Amount    decimal.Decimal
	ActorID   string
}

// PayBill debits the paying account. The payee is carried in the
// description only; it is not modeled as an account.
func (uc *LedgerUseCase) PayBill(ctx context.Context, input PayBillInput) (*domain.Entry, error) {
	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.ApplyMovement(ctx, ApplyMovementInput{
		AccountID:   input.AccountID,
		Kind:        domain.EntryKindBillPayment,
		Amount:      input.Amount.Neg(),
		Description: "Bill Payment - " + input.BillID,
		Reference:   uc.newReference(refPrefixBill),
		ActorID:     input.ActorID,
	})
}

// PayCreditCardInput represents input for a credit card payment.
type PayCreditCardInput struct {
	AccountID string
	CardID    string
	Amount    decimal.Decimal
	ActorID   string
}

// PayCreditCard debits the paying account toward a credit card balance.
func (uc *LedgerUseCase) PayCreditCard(ctx context.Context, input PayCreditCardInput) (*domain.Entry, error) {
	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	return uc.ApplyMovement(ctx, ApplyMovementInput{
		AccountID:   input.AccountID,
		Kind:        domain.EntryKindCreditPayment,
		Amount:      input.Amount.Neg(),
		Description: "Credit Card Payment - " + input.CardID,
		Reference:   uc.newReference(refPrefixCard),
		ActorID:     input.ActorID,
	})
}

// MintInput represents input for administrative money creation.
type MintInput struct {
	ActorID   string
	AccountID string
	Amount    decimal.Decimal
}

// Mint credits an account with newly created money. This is the only
// operation that increases total money supply without a matching debit,
// and it requires a privileged actor.
func (uc *LedgerUseCase) Mint(ctx context.Context, input MintInput) (*domain.Entry, error) {
	if err := uc.requirePrivileged(ctx, input.ActorID); err != nil {
		return nil, err
	}

	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}

	reference := uc.newReference(refPrefixMint)

	var entry *domain.Entry

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		entry, err = uc.applyEntryTx(ctx, tx, account, domain.EntryKindMint, input.Amount, "Money Creation", reference, "", now)
		if err != nil {
			return err
		}

		if err := uc.emitTx(ctx, tx, domain.AggregateTypeEntry, entry.ID, domain.EventTypeMintCreated, domain.MarshalState(domain.MintCreatedEvent{
			EntryID:   entry.ID,
			AccountID: account.ID,
			ActorID:   input.ActorID,
			Amount:    input.Amount.String(),
			Currency:  account.Currency,
		}), now); err != nil {
			return err
		}

		if err := uc.auditTx(ctx, tx, input.ActorID, domain.AuditActionMintCreate, entry.ID, nil, entry, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) requirePrivileged(ctx context.Context, actorID string) error {
	if actorID == "" {
		return domain.ErrUnauthorized
	}

	privileged, err := uc.authority.IsPrivileged(ctx, actorID)
	if err != nil {
		return err
	}

	if !privileged {
		return domain.ErrUnauthorized
	}

	return nil
}

// lockAccounts loads the given accounts FOR UPDATE in sorted id order.
// Locking in one fixed global order prevents deadlock when two operations
// touch the same pair of accounts.
func (uc *LedgerUseCase) lockAccounts(ctx context.Context, tx Transaction, ids []string) (map[string]*domain.Account, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	sort.Strings(unique)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, unique)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(unique) {
		return nil, domain.ErrAccountNotFound
	}

	m := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m, nil
}
