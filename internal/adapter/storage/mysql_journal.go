package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pawslabs/paws-storefront/internal/core/domain"
)

// MySQLJournal records confirmed orders for local bookkeeping: one order
// row plus one row per item, in a single transaction. It is an audit
// trail only; the remote API stays the source of truth and a failed
// journal write never touches the cart or the stock ledger.
type MySQLJournal struct {
	db *sql.DB
}

func NewMySQLJournal(db *sql.DB) *MySQLJournal {
	return &MySQLJournal{db: db}
}

func (m *MySQLJournal) Record(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address, notes,
			subtotal, shipping_cost, grand_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Customer.Name, order.Customer.Phone, order.Customer.Address,
		order.Customer.Notes, order.Subtotal, order.ShippingCost, order.GrandTotal,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, size, quantity, price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Name, item.Size, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}
