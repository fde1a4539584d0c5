package inn

// Item is one stack of goods in the inn's storeroom.
type Item struct {
	ItemID   string `json:"itemId" yaml:"itemId"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Inventory is the inn's storeroom.
type Inventory struct {
	Items []Item `json:"items" yaml:"items"`
}

// NewInventory creates a new empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Items: []Item{},
	}
}

// AddItem adds quantity of itemID, stacking onto an existing entry.
// Non-positive quantities are ignored.
func (inv *Inventory) AddItem(itemID string, quantity int) {
	if quantity <= 0 || itemID == "" {
		return
	}
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ItemID == itemID {
			item.Quantity += quantity
			return
		}
	}
	inv.Items = append(inv.Items, Item{ItemID: itemID, Quantity: quantity})
}

// Count returns how many of itemID are in stock.
func (inv *Inventory) Count(itemID string) int {
	for _, item := range inv.Items {
		if item.ItemID == itemID {
			return item.Quantity
		}
	}
	return 0
}

func (inv *Inventory) clone() *Inventory {
	if inv == nil {
		return NewInventory()
	}
	return &Inventory{Items: append([]Item{}, inv.Items...)}
}
