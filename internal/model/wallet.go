package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// wallets — ровно один на организацию, создаётся лениво при первой проводке.
// Balance — производный кэш: источник истины — журнал транзакций.
type Wallet struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Balance  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0"`
	Currency string          `gorm:"type:varchar(8);not null;default:'USD'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Transactions []Transaction `gorm:"foreignKey:WalletID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type TransactionType string

const (
	TransactionTypeAppointment TransactionType = "appointment"
	TransactionTypeOrder       TransactionType = "order"
	TransactionTypeExpense     TransactionType = "expense"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
)

// ParseTransactionType конвертирует строку с границы в закрытое множество типов.
func ParseTransactionType(raw string) (TransactionType, bool) {
	switch TransactionType(raw) {
	case TransactionTypeAppointment, TransactionTypeOrder,
		TransactionTypeExpense, TransactionTypeWithdrawal:
		return TransactionType(raw), true
	}
	return "", false
}

// Знак проводки: расходы и выводы уменьшают баланс.
func (t TransactionType) Sign() decimal.Decimal {
	switch t {
	case TransactionTypeExpense, TransactionTypeWithdrawal:
		return decimal.NewFromInt(-1)
	default:
		return decimal.NewFromInt(1)
	}
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusProcessed TransactionStatus = "processed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Counted — учитывается ли транзакция в балансе и агрегатах.
func (s TransactionStatus) Counted() bool {
	return s == TransactionStatusPaid || s == TransactionStatusProcessed
}

// transactions — неизменяемая запись журнала.
// После записи в статусе paid не мутируется; ошибка исправляется
// только новой компенсирующей проводкой.
type Transaction struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	WalletID uuid.UUID `gorm:"type:uuid;not null;index"`

	Type TransactionType `gorm:"type:varchar(32);not null;index"`

	// Всегда положительная; знак определяется типом.
	Amount decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	Status TransactionStatus `gorm:"type:varchar(32);not null;index"`

	Description string `gorm:"type:text"`

	// Ключ идемпотентности: appointment/order, породивший проводку.
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`

	OccurredAt time.Time `gorm:"type:timestamp with time zone;not null;index"`
	CreatedAt  time.Time `gorm:"not null;default:now()"`

	Wallet *Wallet `gorm:"foreignKey:WalletID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// SignedAmount — сумма со знаком типа.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Mul(t.Type.Sign())
}
