// Package seed holds the record-seeding procedures used by the operational
// tooling: synthesizing historical orders for a known customer and
// provisioning privileged accounts. Every procedure is a single
// load-modify-save pass over the collection store and never writes anything
// when one of its dependencies is missing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dollers-electro/models"
	"dollers-electro/store"
)

// Sentinel errors for missing seeding dependencies.
var (
	ErrNoCustomer = errors.New("seed: no customer with that email")
	ErrNoProducts = errors.New("seed: product collection is empty")
)

// OrdersConfig drives the order-seeding procedure.
type OrdersConfig struct {
	// CustomerEmail locates the target customer by exact match.
	CustomerEmail string
	// ProductIndexes are positional indexes into the product collection,
	// one per line item. An index past the end of the collection falls
	// back to index 0. Empty means a single line item of product 0.
	ProductIndexes []int
	// Count is the number of orders to synthesize (default 1).
	Count int
	// DaysAgo dates the newest order that many days in the past; each
	// additional order is placed a week earlier to simulate history.
	DaysAgo int
	// OrderNumberStart is the first display order number in the sequence
	// (default 1000).
	OrderNumberStart int
}

// Orders synthesizes historical orders for an existing customer and appends
// them to the orders collection. If the customer or the product collection is
// missing, it logs a diagnostic and returns without touching the store; it
// never creates placeholder records on the caller's behalf.
func Orders(ctx context.Context, st store.Store, log zerolog.Logger, cfg OrdersConfig) ([]models.Order, error) {
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.OrderNumberStart <= 0 {
		cfg.OrderNumberStart = 1000
	}
	if len(cfg.ProductIndexes) == 0 {
		cfg.ProductIndexes = []int{0}
	}

	// Locate the target customer by exact email match.
	var users []models.User
	if err := st.Load(ctx, store.CollectionUsers, &users); err != nil {
		return nil, fmt.Errorf("seed: load users: %w", err)
	}
	var customer *models.User
	for i := range users {
		if strings.EqualFold(users[i].Email, cfg.CustomerEmail) {
			customer = &users[i]
			break
		}
	}
	if customer == nil {
		log.Error().Str("email", cfg.CustomerEmail).Msg("no customer with that email, nothing seeded")
		return nil, ErrNoCustomer
	}

	var products []models.Product
	if err := st.Load(ctx, store.CollectionProducts, &products); err != nil {
		return nil, fmt.Errorf("seed: load products: %w", err)
	}
	if len(products) == 0 {
		log.Error().Msg("product collection is empty, nothing seeded")
		return nil, ErrNoProducts
	}

	var orders []models.Order
	if err := st.Load(ctx, store.CollectionOrders, &orders); err != nil {
		return nil, fmt.Errorf("seed: load orders: %w", err)
	}

	now := time.Now().UTC()
	created := make([]models.Order, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		// Newest order first; each additional order lands a week earlier.
		orderDate := now.AddDate(0, 0, -(cfg.DaysAgo + i*7))

		items := make([]models.OrderItem, 0, len(cfg.ProductIndexes))
		total := decimal.Zero
		for j, idx := range cfg.ProductIndexes {
			if idx < 0 || idx >= len(products) {
				idx = 0
			}
			p := products[idx]
			qty := 1 + (i+j)%3
			unit := decimal.NewFromFloat(p.Price)
			line := unit.Mul(decimal.NewFromInt(int64(qty)))
			total = total.Add(line)
			items = append(items, models.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  qty,
				UnitPrice: unit.InexactFloat64(),
				LineTotal: line.InexactFloat64(),
			})
		}

		order := models.Order{
			ID:          uuid.NewString(),
			OrderNumber: fmt.Sprintf("DE-%04d", cfg.OrderNumberStart+i),
			CustomerID:  customer.ID,
			Items:       items,
			Total:       total.InexactFloat64(),
			Status:      models.OrderStatusDelivered,
			Delivery: models.Delivery{
				Method:         "standard",
				Status:         "delivered",
				Address:        customer.Address,
				TrackingNumber: fmt.Sprintf("TRK-%s", strings.ToUpper(uuid.NewString()[:8])),
			},
			PaymentMethod: "card",
			PaymentStatus: models.PaymentStatusCompleted,
			Notes:         "seeded test order",
			OrderDate:     orderDate,
			CreatedAt:     orderDate,
			UpdatedAt:     orderDate,
		}
		created = append(created, order)
	}

	orders = append(orders, created...)
	if err := st.Save(ctx, store.CollectionOrders, orders); err != nil {
		return nil, fmt.Errorf("seed: save orders: %w", err)
	}

	log.Info().
		Int("count", len(created)).
		Str("customer", customer.Email).
		Msg("seeded orders")
	return created, nil
}
