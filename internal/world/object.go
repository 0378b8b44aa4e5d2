package world

type ItemType int

const (
	ItemUndefined ItemType = iota
	ItemLight
	ItemScroll
	ItemWand
	ItemStaff
	ItemWeapon
	ItemFireWeapon
	ItemMissile
	ItemTreasure
	ItemArmor
)

// Object is an item as far as combat cares about it. For weapons Value[1]
// and Value[2] are the damage dice count and size, Value[3] the damage type.
type Object struct {
	Name       string // keyword list
	ShortDescr string
	Type       ItemType
	Value      [4]int
}

func (o *Object) IsWeapon() bool { return o != nil && o.Type == ItemWeapon }
