package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/lock"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// LedgerService — append-only журнал транзакций и производный баланс кошелька.
// Ключевой инвариант: проводка и обновление баланса — одна атомарная единица;
// транзакция без парного обновления баланса невозможна.
type LedgerService struct {
	db         *gorm.DB
	locker     lock.Locker
	walletRepo repository.WalletRepository
	orgRepo    repository.OrganizationRepository
	logger     *logrus.Logger
}

func NewLedgerService(
	db *gorm.DB,
	locker lock.Locker,
	walletRepo repository.WalletRepository,
	orgRepo repository.OrganizationRepository,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		db:         db,
		locker:     locker,
		walletRepo: walletRepo,
		orgRepo:    orgRepo,
		logger:     logger,
	}
}

// Post выполняет проводку под замком организации.
// referenceID — ключ идемпотентности для appointment/order-проводок:
// повторная проводка с тем же ключом возвращает существующую запись.
func (s *LedgerService) Post(
	ctx context.Context,
	orgID uuid.UUID,
	txType model.TransactionType,
	amount decimal.Decimal,
	description string,
	occurredAt time.Time,
	referenceID *uuid.UUID,
) (*model.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.Validation("amount must be positive")
	}

	var posted *model.Transaction
	err := s.locker.WithLock(ctx, "wallet:"+orgID.String(), func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			t, err := s.PostTx(ctx, tx, orgID, txType, amount, description, occurredAt, referenceID)
			if err != nil {
				return err
			}
			posted = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// PostTx — проводка внутри уже открытой транзакции БД.
// Вызывающий обязан держать замок кошелька организации.
func (s *LedgerService) PostTx(
	ctx context.Context,
	tx *gorm.DB,
	orgID uuid.UUID,
	txType model.TransactionType,
	amount decimal.Decimal,
	description string,
	occurredAt time.Time,
	referenceID *uuid.UUID,
) (*model.Transaction, error) {
	wallet, err := s.ensureWallet(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	if referenceID != nil {
		var existing model.Transaction
		err := tx.WithContext(ctx).
			Where("wallet_id = ?", wallet.ID).
			Where("type = ?", txType).
			Where("reference_id = ?", *referenceID).
			First(&existing).Error
		if err == nil {
			// Повтор ретрая: проводка уже есть, баланс не трогаем.
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	entry := &model.Transaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		Type:        txType,
		Amount:      amount,
		Status:      model.TransactionStatusPaid,
		Description: description,
		ReferenceID: referenceID,
		OccurredAt:  occurredAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}

	newBalance := wallet.Balance.Add(entry.SignedAmount())
	res := tx.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("id = ?", wallet.ID).
		Update("balance", newBalance)
	if res.Error != nil {
		return nil, res.Error
	}

	return entry, nil
}

// ensureWallet — идемпотентный бутстрап кошелька организации.
func (s *LedgerService) ensureWallet(ctx context.Context, tx *gorm.DB, orgID uuid.UUID) (*model.Wallet, error) {
	var wallet model.Wallet
	err := tx.WithContext(ctx).First(&wallet, "organization_id = ?", orgID).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var org model.Organization
	if err := tx.WithContext(ctx).First(&org, "id = ?", orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("organization not found")
		}
		return nil, err
	}

	wallet = model.Wallet{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Balance:        decimal.Zero,
		Currency:       org.Currency,
	}
	if err := tx.WithContext(ctx).Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Balance — текущий баланс кошелька; ноль, если кошелька ещё нет.
func (s *LedgerService) Balance(ctx context.Context, orgID uuid.UUID) (decimal.Decimal, string, error) {
	wallet, err := s.walletRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, "", nil
		}
		return decimal.Zero, "", err
	}
	return wallet.Balance, wallet.Currency, nil
}

// DayAmount — агрегат за календарный день.
type DayAmount struct {
	Day    time.Time
	Amount decimal.Decimal
}

// DailyAggregateResult — дневные суммы для финансового дашборда.
// Withdrawals включает и расходы, и выводы: всё, что уменьшает баланс.
type DailyAggregateResult struct {
	Revenues    []DayAmount
	Withdrawals []DayAmount
}

// DailyAggregate — чистая read-side проекция: суммирует paid/processed
// транзакции по календарным дням, ничего не мутирует.
func (s *LedgerService) DailyAggregate(ctx context.Context, orgID uuid.UUID, from, to time.Time) (*DailyAggregateResult, error) {
	if !to.After(from) {
		return nil, apperr.Validation("to must be after from")
	}

	wallet, err := s.walletRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &DailyAggregateResult{}, nil
		}
		return nil, err
	}

	txs, err := s.walletRepo.ListCountedRange(ctx, wallet.ID, from, to)
	if err != nil {
		return nil, err
	}

	revenues := make(map[time.Time]decimal.Decimal)
	withdrawals := make(map[time.Time]decimal.Decimal)
	for _, t := range txs {
		day := t.OccurredAt.UTC().Truncate(24 * time.Hour)
		switch t.Type {
		case model.TransactionTypeAppointment, model.TransactionTypeOrder:
			revenues[day] = revenues[day].Add(t.Amount)
		case model.TransactionTypeExpense, model.TransactionTypeWithdrawal:
			withdrawals[day] = withdrawals[day].Add(t.Amount)
		}
	}

	return &DailyAggregateResult{
		Revenues:    sortedDayAmounts(revenues),
		Withdrawals: sortedDayAmounts(withdrawals),
	}, nil
}

func sortedDayAmounts(m map[time.Time]decimal.Decimal) []DayAmount {
	result := make([]DayAmount, 0, len(m))
	for day, amount := range m {
		result = append(result, DayAmount{Day: day, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})
	return result
}

// Transactions — журнал кошелька за период, новые первыми.
func (s *LedgerService) Transactions(ctx context.Context, orgID uuid.UUID, from, to time.Time, limit, offset int) ([]model.Transaction, int64, error) {
	wallet, err := s.walletRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.Transaction{}, 0, nil
		}
		return nil, 0, err
	}
	return s.walletRepo.ListRange(ctx, wallet.ID, from, to, limit, offset)
}
