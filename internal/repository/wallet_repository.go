package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/model"
)

type WalletRepository interface {
	// Кошелёк организации; gorm.ErrRecordNotFound, если ещё не создан.
	GetByOrg(ctx context.Context, orgID uuid.UUID) (*model.Wallet, error)
	// Транзакции кошелька за период, новые первыми, с пагинацией.
	ListRange(ctx context.Context, walletID uuid.UUID, from, to time.Time, limit, offset int) ([]model.Transaction, int64, error)
	// Учитываемые (paid/processed) транзакции за период, старые первыми —
	// для агрегатов read-side.
	ListCountedRange(ctx context.Context, walletID uuid.UUID, from, to time.Time) ([]model.Transaction, error)
}

type GormWalletRepository struct {
	db *gorm.DB
}

func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

func (r *GormWalletRepository) GetByOrg(ctx context.Context, orgID uuid.UUID) (*model.Wallet, error) {
	var w model.Wallet
	if err := r.db.WithContext(ctx).First(&w, "organization_id = ?", orgID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *GormWalletRepository) ListRange(
	ctx context.Context,
	walletID uuid.UUID,
	from, to time.Time,
	limit, offset int,
) ([]model.Transaction, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("wallet_id = ?", walletID).
		Where("occurred_at >= ? AND occurred_at <= ?", from, to)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var txs []model.Transaction
	if err := q.Order("occurred_at DESC").Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *GormWalletRepository) ListCountedRange(
	ctx context.Context,
	walletID uuid.UUID,
	from, to time.Time,
) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Where("occurred_at >= ? AND occurred_at <= ?", from, to).
		Where("status IN ?", []model.TransactionStatus{
			model.TransactionStatusPaid,
			model.TransactionStatusProcessed,
		}).
		Order("occurred_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}
