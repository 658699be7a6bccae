package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jinitha01/ecom-demo/internal/catalog"
	"github.com/jinitha01/ecom-demo/internal/domain"
)

// ErrNotInCart is returned when an operation references a product id that has
// no line in the session's cart.
var ErrNotInCart = errors.New("product not in cart")

// Service owns the session cart state machine. Every operation reads the
// current cart from the session store, mutates it in memory and writes it
// back, so the store stays the single source of truth across requests.
//
// Two requests racing on the same session are not serialized: the classic
// read-modify-write race applies and the last writer wins. Session traffic is
// effectively single-writer per visitor, so this is accepted rather than
// locked around.
type Service struct {
	store   StoreInterface
	catalog catalog.Repository
}

// StoreInterface is the slice of the session store the engine needs.
type StoreInterface interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart domain.Cart) error
}

func NewService(store StoreInterface, cat catalog.Repository) *Service {
	return &Service{
		store:   store,
		catalog: cat,
	}
}

// UpdateResult reports the outcome of an increase/decrease mutation.
// NewSubtotal is nil when the line was deleted (decrease at quantity 1).
type UpdateResult struct {
	NewQuantity int
	NewSubtotal *float64
	TotalPrice  float64
}

// Add puts one unit of the product into the session cart. The product must
// resolve in the catalog; its name, price and image are snapshotted into the
// line at this moment and never refreshed afterwards. Returns the product
// name for confirmation messaging.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64) (string, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			log.Printf("catalog lookup error: %v \n", err)
		}
		return "", err
	}

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("session get error: %v \n", err)
		return "", err
	}

	key := strconv.FormatInt(productID, 10)
	if line, exists := cart[key]; exists {
		line.Quantity++
		cart[key] = line
	} else {
		cart[key] = domain.CartLine{
			Name:     product.Name,
			Price:    product.Price.String(),
			Quantity: 1,
			ImageURL: product.ImageURL,
			AddedAt:  time.Now(),
		}
	}

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		log.Printf("session set error: %v \n", err)
		return "", err
	}
	return product.Name, nil
}

// Increase bumps an existing line's quantity by one. No upper bound.
func (s *Service) Increase(ctx context.Context, sessionID string, productID int64) (*UpdateResult, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatInt(productID, 10)
	line, exists := cart[key]
	if !exists {
		return nil, ErrNotInCart
	}

	line.Quantity++
	cart[key] = line

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	subtotal, err := lineSubtotal(line)
	if err != nil {
		return nil, err
	}
	total, err := cartTotal(cart)
	if err != nil {
		return nil, err
	}

	sub := subtotal.InexactFloat64()
	return &UpdateResult{
		NewQuantity: line.Quantity,
		NewSubtotal: &sub,
		TotalPrice:  total.InexactFloat64(),
	}, nil
}

// Decrease lowers an existing line's quantity by one. At quantity 1 the line
// is deleted outright; a quantity-0 line never exists. The returned total is
// computed over the remaining lines only.
func (s *Service) Decrease(ctx context.Context, sessionID string, productID int64) (*UpdateResult, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatInt(productID, 10)
	line, exists := cart[key]
	if !exists {
		return nil, ErrNotInCart
	}

	if line.Quantity > 1 {
		line.Quantity--
		cart[key] = line
	} else {
		delete(cart, key)
	}

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	total, err := cartTotal(cart)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{TotalPrice: total.InexactFloat64()}
	if remaining, exists := cart[key]; exists {
		subtotal, err := lineSubtotal(remaining)
		if err != nil {
			return nil, err
		}
		sub := subtotal.InexactFloat64()
		result.NewQuantity = remaining.Quantity
		result.NewSubtotal = &sub
	}
	return result, nil
}

// Remove deletes a line regardless of quantity and returns the recomputed
// grand total over the remaining lines.
func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) (float64, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	key := strconv.FormatInt(productID, 10)
	if _, exists := cart[key]; !exists {
		return 0, ErrNotInCart
	}
	delete(cart, key)

	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return 0, err
	}

	total, err := cartTotal(cart)
	if err != nil {
		return 0, err
	}
	return total.InexactFloat64(), nil
}

// View projects the cart into its display form: lines in add order, per-line
// subtotals and the grand total. Pure read, never fails on an empty or absent
// cart.
func (s *Service) View(ctx context.Context, sessionID string) (*domain.CartView, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(cart))
	for key := range cart {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := cart[keys[i]], cart[keys[j]]
		if !a.AddedAt.Equal(b.AddedAt) {
			return a.AddedAt.Before(b.AddedAt)
		}
		return keys[i] < keys[j]
	})

	view := &domain.CartView{Items: make([]domain.CartViewItem, 0, len(cart))}
	total := decimal.Zero
	for _, key := range keys {
		line := cart[key]
		price, err := decimal.NewFromString(line.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q in cart line %s: %w", line.Price, key, err)
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)

		view.Items = append(view.Items, domain.CartViewItem{
			ProductID: key,
			Name:      line.Name,
			Price:     price.InexactFloat64(),
			Quantity:  line.Quantity,
			ImageURL:  line.ImageURL,
			Subtotal:  subtotal.InexactFloat64(),
		})
	}
	view.TotalPrice = total.InexactFloat64()
	return view, nil
}

func lineSubtotal(line domain.CartLine) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(line.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q in cart line: %w", line.Price, err)
	}
	return price.Mul(decimal.NewFromInt(int64(line.Quantity))), nil
}

func cartTotal(cart domain.Cart) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range cart {
		subtotal, err := lineSubtotal(line)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(subtotal)
	}
	return total, nil
}
