// Package shop buys and sells items between an inventory store and a purse.
package shop

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/rpgcore/internal/game/inventory"
	"github.com/cory-johannsen/rpgcore/internal/game/npc"
)

// Sentinel errors returned by Buy and Sell.
var (
	ErrNotStocked           = errors.New("shop: item not stocked")
	ErrInsufficientGold     = errors.New("shop: not enough gold")
	ErrInventoryFull        = errors.New("shop: inventory is full")
	ErrInvalidQuantity      = errors.New("shop: quantity must be >= 1")
	ErrInsufficientQuantity = errors.New("shop: not enough items to sell")
	ErrNotForSale           = errors.New("shop: item cannot be sold")
)

// Wallet is the purse a trade draws from or pays into.
type Wallet interface {
	Gold() int
	SpendGold(amount int) bool
	AddGold(amount int)
}

// Shop is a shopkeeper's resolved stock.
type Shop struct {
	Keeper string
	stock  []*inventory.ItemDef
	index  map[string]bool
}

// New resolves tmpl's stock through reg.
//
// Precondition: tmpl.Shopkeeper is true.
// Postcondition: returns an error naming the first stock ID reg does not know.
func New(tmpl *npc.Template, reg *inventory.Registry) (*Shop, error) {
	if !tmpl.Shopkeeper {
		return nil, fmt.Errorf("shop.New: %q is not a shopkeeper", tmpl.ID)
	}
	s := &Shop{Keeper: tmpl.Name, index: make(map[string]bool, len(tmpl.Stock))}
	for _, id := range tmpl.Stock {
		item, ok := reg.Item(id)
		if !ok {
			return nil, fmt.Errorf("shop.New: %q stocks unknown item %q", tmpl.ID, id)
		}
		if s.index[id] {
			continue
		}
		s.index[id] = true
		s.stock = append(s.stock, item)
	}
	return s, nil
}

// Stock returns the items on sale in listing order.
func (s *Shop) Stock() []*inventory.ItemDef {
	out := make([]*inventory.ItemDef, len(s.stock))
	copy(out, s.stock)
	return out
}

// Offers reports whether item is on sale.
func (s *Shop) Offers(item *inventory.ItemDef) bool {
	return item != nil && s.index[item.ID]
}

// Buy sells quantity units of item from this shop into store.
func (s *Shop) Buy(store *inventory.Store, wallet Wallet, item *inventory.ItemDef, quantity int) error {
	if !s.Offers(item) {
		return ErrNotStocked
	}
	return Buy(store, wallet, item, quantity)
}

// Buy moves quantity units of item into store, paying BuyPrice each.
//
// Postcondition: on error, store and wallet are unchanged.
func Buy(store *inventory.Store, wallet Wallet, item *inventory.ItemDef, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if item == nil || item.BuyPrice <= 0 {
		return ErrNotStocked
	}
	cost := item.BuyPrice * quantity
	if wallet.Gold() < cost {
		return ErrInsufficientGold
	}
	if store.Capacity(item) < quantity {
		return ErrInventoryFull
	}
	if !wallet.SpendGold(cost) {
		return ErrInsufficientGold
	}
	if !store.AddItem(item, quantity) {
		wallet.AddGold(cost)
		return ErrInventoryFull
	}
	return nil
}

// Sell removes quantity units of item from store and pays SellPrice each.
//
// Postcondition: on error, store and wallet are unchanged.
func Sell(store *inventory.Store, wallet Wallet, item *inventory.ItemDef, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if item == nil || item.Kind == inventory.KindQuest {
		return ErrNotForSale
	}
	if !store.RemoveItem(item, quantity) {
		return ErrInsufficientQuantity
	}
	wallet.AddGold(item.SellPrice * quantity)
	return nil
}
