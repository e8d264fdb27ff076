// Package routing models a solo run as a replayable event tree: an immutable
// RouteState (the solo mon plus the bag) threaded through event definitions,
// with a Router managing the tree and its JSON persistence.
package routing

import (
	"fmt"

	"github.com/soloroute/soloroute/internal/game/mon"
)

// BagItem is one bag slot: an item and how many of it are held.
type BagItem struct {
	Item     mon.Item
	Quantity int
}

// Equals compares by item name and quantity.
func (b BagItem) Equals(other BagItem) bool {
	return b.Item.Name == other.Item.Name && b.Quantity == other.Quantity
}

// Inventory is the money plus the ordered bag. All mutations return a new
// Inventory; slot order is preserved because it is player-visible.
type Inventory struct {
	Money    int
	Items    []BagItem
	bagLimit int
	index    map[string]int
}

// NewInventory builds an empty inventory. A bagLimit of zero or less means
// unlimited.
func NewInventory(money, bagLimit int) Inventory {
	return Inventory{Money: money, bagLimit: bagLimit, index: map[string]int{}}
}

func (inv Inventory) clone() Inventory {
	result := Inventory{
		Money:    inv.Money,
		Items:    make([]BagItem, len(inv.Items)),
		bagLimit: inv.bagLimit,
		index:    make(map[string]int, len(inv.index)),
	}
	copy(result.Items, inv.Items)
	for name, idx := range inv.index {
		result.index[name] = idx
	}
	return result
}

func (inv *Inventory) reindex() {
	inv.index = make(map[string]int, len(inv.Items))
	for idx, bagItem := range inv.Items {
		inv.index[bagItem.Item.Name] = idx
	}
}

// AddItem returns the inventory after gaining items. A purchase also deducts
// the total cost. With force set, fund, key-item, and bag-space violations
// are ignored instead of failing.
func (inv Inventory) AddItem(item mon.Item, quantity int, isPurchase, force bool) (Inventory, error) {
	result := inv.clone()
	if isPurchase {
		totalCost := quantity * item.PurchasePrice
		if !force && totalCost > result.Money {
			return inv, fmt.Errorf("cannot purchase %d %s for %d with only %d money", quantity, item.Name, totalCost, inv.Money)
		}
		result.Money -= totalCost
	}

	if idx, held := result.index[item.Name]; held {
		if !force && item.IsKeyItem {
			return inv, fmt.Errorf("cannot have multiple of the same key item: %s", item.Name)
		}
		result.Items[idx].Quantity += quantity
	} else if !force && result.bagLimit > 0 && len(result.Items) >= result.bagLimit {
		return inv, fmt.Errorf("cannot add more than %d items to bag", result.bagLimit)
	} else {
		result.index[item.Name] = len(result.Items)
		result.Items = append(result.Items, BagItem{Item: item, Quantity: quantity})
	}
	return result, nil
}

// RemoveItem returns the inventory after using, dropping, or selling items.
// A sale credits the sell price per item. With force set, a missing item or
// short stack is tolerated: the sale credit still applies and the slot is
// drained to empty.
func (inv Inventory) RemoveItem(item mon.Item, quantity int, isSale, force bool) (Inventory, error) {
	idx, held := inv.index[item.Name]
	if !held {
		if !force {
			return inv, fmt.Errorf("cannot remove %s that is not in the bag", item.Name)
		}
		if !isSale {
			return inv, nil
		}
		result := inv.clone()
		result.Money += item.SellPrice * quantity
		return result, nil
	}

	if !force && item.IsKeyItem && isSale {
		return inv, fmt.Errorf("cannot sell key item: %s", item.Name)
	}

	result := inv.clone()
	if !force && result.Items[idx].Quantity < quantity {
		return inv, fmt.Errorf("cannot sell/use %d %s when you only have %d", quantity, item.Name, result.Items[idx].Quantity)
	}

	result.Items[idx].Quantity -= quantity
	if result.Items[idx].Quantity <= 0 {
		result.Items = append(result.Items[:idx], result.Items[idx+1:]...)
		result.reindex()
	}

	if isSale {
		result.Money += item.SellPrice * quantity
	}
	return result, nil
}

// Quantity returns how many of the named item are held.
func (inv Inventory) Quantity(itemName string) int {
	if idx, held := inv.index[itemName]; held {
		return inv.Items[idx].Quantity
	}
	return 0
}

// Equals compares money and bag contents in order.
func (inv Inventory) Equals(other Inventory) bool {
	if inv.Money != other.Money || len(inv.Items) != len(other.Items) {
		return false
	}
	for i := range inv.Items {
		if !inv.Items[i].Equals(other.Items[i]) {
			return false
		}
	}
	return true
}
