package service

import (
	"context"
	"errors"
	"fmt"
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

// OrderService — покупки товаров: списание склада при создании,
// ORDER-проводка в Ledger при доставке.
type OrderService struct {
	db        *gorm.DB
	locker    lock.Locker
	orderRepo repository.OrderRepository
	ledger    *LedgerService
	logger    *logrus.Logger
}

func NewOrderService(
	db *gorm.DB,
	locker lock.Locker,
	orderRepo repository.OrderRepository,
	ledger *LedgerService,
	logger *logrus.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		locker:    locker,
		orderRepo: orderRepo,
		ledger:    ledger,
		logger:    logger,
	}
}

// OrderItemRequest — строка заявки на заказ.
type OrderItemRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

// CreateOrder создаёт заказ, его строки и списывает склад в одной
// транзакции. Если хоть одно списание увело бы остаток ниже нуля —
// ничего не сохраняется.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	orgID uuid.UUID,
	items []OrderItemRequest,
	deliveryFee decimal.Decimal,
	customerName, customerPhone string,
) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validation("item quantity must be positive")
		}
	}
	if deliveryFee.IsNegative() {
		return nil, apperr.Validation("delivery fee must not be negative")
	}

	order := &model.Order{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Status:         model.OrderStatusPending,
		DeliveryFee:    deliveryFee,
		CustomerName:   customerName,
		CustomerPhone:  customerPhone,
		Version:        1,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := deliveryFee
		for _, item := range items {
			var product model.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product not found")
				}
				return err
			}
			if product.OrganizationID != orgID {
				return apperr.NotFound("product not found")
			}

			// Условное списание: уйти в минус нельзя.
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", product.ID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Newf(apperr.KindInsufficientStock,
					"insufficient stock for product %q", product.Name)
			}

			order.Items = append(order.Items, model.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(item.Quantity)))
		}

		order.Total = total
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"module":          "order",
		"organization_id": orgID.String(),
		"order_id":        order.ID.String(),
	}).Info("order created")

	return order, nil
}

// MarkProcessing — PENDING → PROCESSING.
func (s *OrderService) MarkProcessing(ctx context.Context, orgID uuid.UUID, orderID string) (*model.Order, error) {
	return s.transition(ctx, orgID, orderID,
		[]model.OrderStatus{model.OrderStatusPending}, model.OrderStatusProcessing)
}

// MarkDelivered переводит заказ в DELIVERED и ровно один раз проводит
// ORDER-транзакцию (ключ идемпотентности — orderId, чтобы пережить
// ретраи обновления статуса).
func (s *OrderService) MarkDelivered(ctx context.Context, orgID uuid.UUID, orderID string) (*model.Order, error) {
	order, err := s.getOrgOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, apperr.TerminalState("order is cancelled")
	}

	err = s.locker.WithLock(ctx, "wallet:"+orgID.String(), func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if order.Status != model.OrderStatusDelivered {
				res := tx.Model(&model.Order{}).
					Where("id = ? AND version = ? AND status IN ?",
						order.ID, order.Version,
						[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusProcessing}).
					Updates(map[string]any{
						"status":  model.OrderStatusDelivered,
						"version": gorm.Expr("version + 1"),
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return apperr.Conflict("order was modified concurrently")
				}
			}

			refID := order.ID
			_, err := s.ledger.PostTx(ctx, tx, orgID,
				model.TransactionTypeOrder, order.Total,
				fmt.Sprintf("order %s", order.ID), time.Now().UTC(), &refID)
			if err != nil {
				return fmt.Errorf("post order transaction: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// CancelOrder — отмена до доставки с возвратом остатков на склад.
func (s *OrderService) CancelOrder(ctx context.Context, orgID uuid.UUID, orderID string) (*model.Order, error) {
	order, err := s.getOrgOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apperr.TerminalState("order is in a terminal state")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("id = ? AND version = ? AND status IN ?",
				order.ID, order.Version,
				[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusProcessing}).
			Updates(map[string]any{
				"status":  model.OrderStatusCancelled,
				"version": gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("order was modified concurrently")
		}

		for _, item := range order.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// ListOrders — заказы организации, новые первыми.
func (s *OrderService) ListOrders(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]model.Order, int64, error) {
	return s.orderRepo.ListByOrg(ctx, orgID, limit, offset)
}

func (s *OrderService) transition(
	ctx context.Context,
	orgID uuid.UUID,
	orderID string,
	from []model.OrderStatus,
	to model.OrderStatus,
) (*model.Order, error) {
	order, err := s.getOrgOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, apperr.TerminalState("order is in a terminal state")
	}

	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND version = ? AND status IN ?", order.ID, order.Version, from).
		Updates(map[string]any{
			"status":  to,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidTransition(
			fmt.Sprintf("order cannot transition to %s from %s", to, order.Status))
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *OrderService) getOrgOrder(ctx context.Context, orgID uuid.UUID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	if order.OrganizationID != orgID {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}
