package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/your-org/food-ordering-backend/internal/domain/product"
)

var errNetwork = errors.New("connection reset by peer")

// memoryGateway is an in-memory Gateway. It enforces the (identity, product)
// uniqueness on insert unless allowDuplicates is set.
type memoryGateway struct {
	mu              sync.Mutex
	nextID          uint
	rows            []CartRow
	products        map[uint]product.Product
	allowDuplicates bool

	failListRows     int
	failListProducts error
	failWrites       error
	listRowCalls     int
	listProductCalls [][]uint

	// beforeInsert runs inside InsertCartRow before the uniqueness check
	beforeInsert func()
}

func newMemoryGateway(products ...product.Product) *memoryGateway {
	g := &memoryGateway{products: map[uint]product.Product{}}
	for _, p := range products {
		g.products[p.ID] = p
	}
	return g
}

func (g *memoryGateway) seedRow(identity string, productID uint, quantity int) CartRow {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.appendRow(identity, productID, quantity)
}

func (g *memoryGateway) appendRow(identity string, productID uint, quantity int) CartRow {
	g.nextID++
	row := CartRow{ID: g.nextID, Identity: identity, ProductID: productID, Quantity: quantity}
	g.rows = append(g.rows, row)
	return row
}

func (g *memoryGateway) rowsFor(identity string) []CartRow {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []CartRow
	for _, row := range g.rows {
		if row.Identity == identity {
			out = append(out, row)
		}
	}
	return out
}

func (g *memoryGateway) ListCartRows(_ context.Context, identity string) ([]CartRow, error) {
	g.mu.Lock()
	g.listRowCalls++
	if g.failListRows > 0 {
		g.failListRows--
		g.mu.Unlock()
		return nil, Unavailable("list cart rows", errNetwork)
	}
	g.mu.Unlock()
	return g.rowsFor(identity), nil
}

func (g *memoryGateway) ListProducts(_ context.Context, ids []uint) ([]product.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listProductCalls = append(g.listProductCalls, append([]uint(nil), ids...))
	if g.failListProducts != nil {
		return nil, g.failListProducts
	}

	var out []product.Product
	for _, id := range ids {
		if p, ok := g.products[id]; ok {
			out = append(out, p)
		}
	}
	// The gateway gives no ordering guarantee
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (g *memoryGateway) InsertCartRow(_ context.Context, identity string, productID uint, quantity int) (*CartRow, error) {
	if g.beforeInsert != nil {
		hook := g.beforeInsert
		g.beforeInsert = nil
		hook()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrites != nil {
		return nil, g.failWrites
	}
	if !g.allowDuplicates {
		for _, row := range g.rows {
			if row.Identity == identity && row.ProductID == productID {
				return nil, ErrDuplicateRow
			}
		}
	}
	row := g.appendRow(identity, productID, quantity)
	return &row, nil
}

func (g *memoryGateway) UpdateCartRowQuantity(_ context.Context, rowID uint, quantity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrites != nil {
		return g.failWrites
	}
	for i := range g.rows {
		if g.rows[i].ID == rowID {
			g.rows[i].Quantity = quantity
			return nil
		}
	}
	return ErrRowNotFound
}

func (g *memoryGateway) DeleteCartRow(_ context.Context, identity string, rowID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrites != nil {
		return g.failWrites
	}
	for i, row := range g.rows {
		if row.ID == rowID && row.Identity == identity {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

func (g *memoryGateway) DeleteCartRows(_ context.Context, identity string, rowIDs ...uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWrites != nil {
		return g.failWrites
	}
	drop := make(map[uint]struct{}, len(rowIDs))
	for _, id := range rowIDs {
		drop[id] = struct{}{}
	}
	kept := g.rows[:0]
	for _, row := range g.rows {
		if _, ok := drop[row.ID]; ok && row.Identity == identity {
			continue
		}
		kept = append(kept, row)
	}
	g.rows = kept
	return nil
}

// upsertingGateway adds the atomic increment path
type upsertingGateway struct {
	*memoryGateway
	increments int
}

func (g *upsertingGateway) IncrementCartRow(_ context.Context, identity string, productID uint, delta int) (*CartRow, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.increments++
	if g.failWrites != nil {
		return nil, g.failWrites
	}
	for i := range g.rows {
		if g.rows[i].Identity == identity && g.rows[i].ProductID == productID {
			g.rows[i].Quantity += delta
			row := g.rows[i]
			return &row, nil
		}
	}
	row := g.appendRow(identity, productID, delta)
	return &row, nil
}
