package inventory

import "github.com/cory-johannsen/rpgcore/internal/game/event"

// DefaultStoreSize is the slot count used when none is configured.
const DefaultStoreSize = 20

// Slot is one storage unit of a Store. A slot with a nil Item or a
// non-positive Quantity is empty.
type Slot struct {
	Item     *ItemDef
	Quantity int
}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool {
	return s.Item == nil || s.Quantity <= 0
}

// ItemDelta is carried by ItemAdded and ItemRemoved notifications.
type ItemDelta struct {
	Item     *ItemDef
	Quantity int
}

// Consumer receives the effect of a consumed item.
type Consumer interface {
	Consume(item *ItemDef)
}

// Store is a fixed-capacity ordered sequence of slots.
//
// Slot order is stable: removing items never shifts other slots. Store is not
// safe for concurrent use, and listeners must not call back into the Store
// from within a notification.
type Store struct {
	slots    []Slot
	consumer Consumer

	SlotChanged event.Feed[int]
	ItemAdded   event.Feed[ItemDelta]
	ItemRemoved event.Feed[ItemDelta]
	ItemUsed    event.Feed[*ItemDef]
}

// NewStore creates a Store with size empty slots.
//
// Precondition: size >= 1. consumer may be nil, in which case UseItem only
// decrements the slot.
// Postcondition: Size() == size and every slot is empty.
func NewStore(size int, consumer Consumer) *Store {
	if size < 1 {
		size = DefaultStoreSize
	}
	return &Store{
		slots:    make([]Slot, size),
		consumer: consumer,
	}
}

// SetConsumer replaces the use-effect target.
func (s *Store) SetConsumer(c Consumer) {
	s.consumer = c
}

func sameItem(a, b *ItemDef) bool {
	return a != nil && b != nil && a.ID == b.ID
}

// AddItem places quantity units of item, topping up existing stacks first and
// then filling empty slots left to right.
//
// Placement is not atomic: if the store runs out of empty slots part-way,
// units already placed stay placed and AddItem returns false. Use Capacity to
// check in advance when all-or-nothing behaviour is needed.
//
// Postcondition: SlotChanged fires for every touched slot; ItemAdded fires
// once iff the full quantity was placed.
func (s *Store) AddItem(item *ItemDef, quantity int) bool {
	if item == nil || quantity <= 0 {
		return false
	}
	limit := item.StackLimit()
	remaining := quantity

	if item.Stackable {
		for i := range s.slots {
			if remaining == 0 {
				break
			}
			slot := &s.slots[i]
			if slot.Empty() || !sameItem(slot.Item, item) || slot.Quantity >= limit {
				continue
			}
			take := min(remaining, limit-slot.Quantity)
			slot.Quantity += take
			remaining -= take
			s.SlotChanged.Emit(i)
		}
	}

	for remaining > 0 {
		idx := s.FindEmptySlot()
		if idx < 0 {
			return false
		}
		take := min(remaining, limit)
		s.slots[idx] = Slot{Item: item, Quantity: take}
		remaining -= take
		s.SlotChanged.Emit(idx)
	}

	s.ItemAdded.Emit(ItemDelta{Item: item, Quantity: quantity})
	return true
}

// RemoveItem removes quantity units of item, draining slots left to right.
//
// Postcondition: on false, the store is unchanged.
func (s *Store) RemoveItem(item *ItemDef, quantity int) bool {
	if item == nil || quantity <= 0 {
		return false
	}
	if s.GetItemCount(item) < quantity {
		return false
	}

	remaining := quantity
	for i := range s.slots {
		if remaining == 0 {
			break
		}
		slot := &s.slots[i]
		if slot.Empty() || !sameItem(slot.Item, item) {
			continue
		}
		take := min(remaining, slot.Quantity)
		slot.Quantity -= take
		remaining -= take
		if slot.Quantity <= 0 {
			*slot = Slot{}
		}
		s.SlotChanged.Emit(i)
	}

	s.ItemRemoved.Emit(ItemDelta{Item: item, Quantity: quantity})
	return true
}

// HasItem reports whether at least quantity units of item are held.
// A quantity below 1 is treated as 1.
func (s *Store) HasItem(item *ItemDef, quantity int) bool {
	if item == nil {
		return false
	}
	return s.GetItemCount(item) >= max(quantity, 1)
}

// GetItemCount returns the total units of item across all slots.
func (s *Store) GetItemCount(item *ItemDef) int {
	if item == nil {
		return 0
	}
	count := 0
	for _, slot := range s.slots {
		if !slot.Empty() && sameItem(slot.Item, item) {
			count += slot.Quantity
		}
	}
	return count
}

// UseItem consumes one unit from the slot at index if it holds a consumable.
// Out-of-range indices, empty slots, and non-consumable items are no-ops.
func (s *Store) UseItem(index int) {
	if index < 0 || index >= len(s.slots) {
		return
	}
	slot := s.slots[index]
	if slot.Empty() {
		return
	}
	switch slot.Item.Kind {
	case KindConsumable:
		item := slot.Item
		if s.consumer != nil {
			s.consumer.Consume(item)
		}
		s.slots[index].Quantity--
		if s.slots[index].Quantity <= 0 {
			s.slots[index] = Slot{}
		}
		s.SlotChanged.Emit(index)
		s.ItemUsed.Emit(item)
	case KindEquipment, KindMaterial, KindQuest, KindMisc:
	default:
	}
}

// FindEmptySlot returns the index of the first empty slot, or -1 if the store is full.
func (s *Store) FindEmptySlot() int {
	for i, slot := range s.slots {
		if slot.Empty() {
			return i
		}
	}
	return -1
}

// Capacity returns how many more units of item fit without failing.
func (s *Store) Capacity(item *ItemDef) int {
	if item == nil {
		return 0
	}
	limit := item.StackLimit()
	room := 0
	for _, slot := range s.slots {
		switch {
		case slot.Empty():
			room += limit
		case item.Stackable && sameItem(slot.Item, item) && slot.Quantity < limit:
			room += limit - slot.Quantity
		}
	}
	return room
}

// ClearSlot empties the slot at index and returns what it held.
//
// Postcondition: ok is false for out-of-range or already empty slots; the
// store is then unchanged.
func (s *Store) ClearSlot(index int) (Slot, bool) {
	if index < 0 || index >= len(s.slots) || s.slots[index].Empty() {
		return Slot{}, false
	}
	old := s.slots[index]
	s.slots[index] = Slot{}
	s.SlotChanged.Emit(index)
	s.ItemRemoved.Emit(ItemDelta{Item: old.Item, Quantity: old.Quantity})
	return old, true
}

// Slot returns the slot at index.
//
// Postcondition: ok is false iff index is out of range.
func (s *Store) Slot(index int) (Slot, bool) {
	if index < 0 || index >= len(s.slots) {
		return Slot{}, false
	}
	return s.slots[index], true
}

// Slots returns a snapshot copy of all slots.
func (s *Store) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Size returns the fixed slot count.
func (s *Store) Size() int {
	return len(s.slots)
}

// UsedSlots returns the number of non-empty slots.
//
// Postcondition: 0 <= result <= Size().
func (s *Store) UsedSlots() int {
	n := 0
	for _, slot := range s.slots {
		if !slot.Empty() {
			n++
		}
	}
	return n
}

// FindSlot returns the index of the first slot holding item, or -1.
func (s *Store) FindSlot(item *ItemDef) int {
	for i, slot := range s.slots {
		if !slot.Empty() && sameItem(slot.Item, item) {
			return i
		}
	}
	return -1
}
