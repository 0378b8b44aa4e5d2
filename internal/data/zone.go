package data

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dikucore/server/internal/world"
)

// RoomDef is one room in a zone file. Exits map direction names to room ids.
type RoomDef struct {
	ID    int32            `yaml:"id"`
	Name  string           `yaml:"name"`
	Death bool             `yaml:"death"`
	Exits map[string]int32 `yaml:"exits"`
}

// ObjectDef is an object prototype. For weapons Value holds the damage
// dice count and size in slots 1 and 2 and the attack type in slot 3.
type ObjectDef struct {
	Vnum       int32  `yaml:"vnum"`
	Name       string `yaml:"name"`
	ShortDescr string `yaml:"short_descr"`
	Type       string `yaml:"type"`
	Value      [4]int `yaml:"value"`
}

var itemTypes = map[string]world.ItemType{
	"light":       world.ItemLight,
	"scroll":      world.ItemScroll,
	"wand":        world.ItemWand,
	"staff":       world.ItemStaff,
	"weapon":      world.ItemWeapon,
	"fire_weapon": world.ItemFireWeapon,
	"missile":     world.ItemMissile,
	"treasure":    world.ItemTreasure,
	"armor":       world.ItemArmor,
}

// Object instantiates the prototype.
func (o *ObjectDef) Object() *world.Object {
	return &world.Object{
		Name:       o.Name,
		ShortDescr: o.ShortDescr,
		Type:       itemTypes[o.Type],
		Value:      o.Value,
	}
}

// MobileDef is a mobile prototype.
type MobileDef struct {
	Vnum        int32  `yaml:"vnum"`
	Name        string `yaml:"name"`
	ShortDescr  string `yaml:"short_descr"`
	Level       int    `yaml:"level"`
	HP          int    `yaml:"hp"`
	Armor       int    `yaml:"armor"`
	Alignment   int    `yaml:"alignment"`
	Str         int    `yaml:"str"`
	Dex         int    `yaml:"dex"`
	Con         int    `yaml:"con"`
	Int         int    `yaml:"int"`
	Wis         int    `yaml:"wis"`
	DamNoDice   int    `yaml:"dam_no_dice"`
	DamSizeDice int    `yaml:"dam_size_dice"`
	AttackType  int    `yaml:"attack_type"`
	Spec        string `yaml:"spec"`
	Wimpy       bool   `yaml:"wimpy"`
	Wield       int32  `yaml:"wield"` // object vnum
}

// SpawnDef places a mobile. Engage names the vnum of an earlier spawn in
// the same room that the two start out fighting.
type SpawnDef struct {
	Vnum   int32 `yaml:"vnum"`
	Room   int32 `yaml:"room"`
	Engage int32 `yaml:"engage"`
}

type zoneFile struct {
	Name    string      `yaml:"name"`
	Rooms   []RoomDef   `yaml:"rooms"`
	Objects []ObjectDef `yaml:"objects"`
	Mobiles []MobileDef `yaml:"mobiles"`
	Spawns  []SpawnDef  `yaml:"spawns"`
}

// Zone holds the rooms, prototypes and spawn list of one area.
type Zone struct {
	Name    string
	Rooms   []RoomDef
	Spawns  []SpawnDef
	objects map[int32]*ObjectDef
	mobiles map[int32]*MobileDef
}

// LoadZone reads a zone file. An empty path loads the built-in zone.
func LoadZone(path string) (*Zone, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = defaults.ReadFile("defaults/zone.yaml")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read zone: %w", err)
	}
	return ParseZone(raw)
}

func ParseZone(raw []byte) (*Zone, error) {
	var f zoneFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse zone: %w", err)
	}
	z := &Zone{
		Name:    f.Name,
		Rooms:   f.Rooms,
		Spawns:  f.Spawns,
		objects: make(map[int32]*ObjectDef, len(f.Objects)),
		mobiles: make(map[int32]*MobileDef, len(f.Mobiles)),
	}
	for i := range f.Objects {
		o := &f.Objects[i]
		if _, dup := z.objects[o.Vnum]; dup {
			return nil, fmt.Errorf("zone %s: duplicate object %d", f.Name, o.Vnum)
		}
		if _, ok := itemTypes[o.Type]; !ok {
			return nil, fmt.Errorf("zone %s: object %d: unknown type %q", f.Name, o.Vnum, o.Type)
		}
		z.objects[o.Vnum] = o
	}
	for i := range f.Mobiles {
		m := &f.Mobiles[i]
		if _, dup := z.mobiles[m.Vnum]; dup {
			return nil, fmt.Errorf("zone %s: duplicate mobile %d", f.Name, m.Vnum)
		}
		z.mobiles[m.Vnum] = m
	}
	if err := z.validate(); err != nil {
		return nil, fmt.Errorf("zone %s: %w", f.Name, err)
	}
	return z, nil
}

func (z *Zone) validate() error {
	rooms := make(map[int32]bool, len(z.Rooms))
	for _, r := range z.Rooms {
		if rooms[r.ID] {
			return fmt.Errorf("duplicate room %d", r.ID)
		}
		rooms[r.ID] = true
	}
	for _, r := range z.Rooms {
		for name, to := range r.Exits {
			if _, ok := ParseDirection(name); !ok {
				return fmt.Errorf("room %d: unknown direction %q", r.ID, name)
			}
			if !rooms[to] {
				return fmt.Errorf("room %d: exit %s to unknown room %d", r.ID, name, to)
			}
		}
	}
	for _, m := range z.mobiles {
		if m.Wield != 0 {
			o := z.objects[m.Wield]
			if o == nil || itemTypes[o.Type] != world.ItemWeapon {
				return fmt.Errorf("mobile %d: wields %d, which is not a weapon", m.Vnum, m.Wield)
			}
		}
	}
	placed := make(map[[2]int32]bool)
	for i, s := range z.Spawns {
		if z.mobiles[s.Vnum] == nil {
			return fmt.Errorf("spawn %d: unknown mobile %d", i, s.Vnum)
		}
		if !rooms[s.Room] {
			return fmt.Errorf("spawn %d: unknown room %d", i, s.Room)
		}
		if s.Engage != 0 && !placed[[2]int32{s.Engage, s.Room}] {
			return fmt.Errorf("spawn %d: engage target %d not spawned earlier in room %d", i, s.Engage, s.Room)
		}
		placed[[2]int32{s.Vnum, s.Room}] = true
	}
	return nil
}

// Mobile returns a prototype by vnum, or nil if not found.
func (z *Zone) Mobile(vnum int32) *MobileDef {
	return z.mobiles[vnum]
}

// Object returns a prototype by vnum, or nil if not found.
func (z *Zone) Object(vnum int32) *ObjectDef {
	return z.objects[vnum]
}

// Instantiate creates a mobile from its prototype, armed with its weapon.
// Returns nil for an unknown vnum.
func (z *Zone) Instantiate(vnum int32) *world.Character {
	m := z.mobiles[vnum]
	if m == nil {
		return nil
	}
	ch := m.Character()
	if m.Wield != 0 {
		ch.Wielded = z.objects[m.Wield].Object()
	}
	return ch
}

// MobileCount returns the number of prototypes.
func (z *Zone) MobileCount() int {
	return len(z.mobiles)
}

// ParseDirection maps an exit name to a direction.
func ParseDirection(name string) (world.Direction, bool) {
	for d := world.North; d < world.NumDirections; d++ {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// Room builds the world room for r.
func (r RoomDef) Room() *world.Room {
	room := &world.Room{ID: world.RoomID(r.ID), Name: r.Name}
	if r.Death {
		room.Flags |= world.RoomDeath
	}
	for name, to := range r.Exits {
		if d, ok := ParseDirection(name); ok {
			room.Exits[d] = world.RoomID(to)
		}
	}
	return room
}

// Character instantiates the prototype as a fresh mobile.
func (m *MobileDef) Character() *world.Character {
	ab := world.Abilities{Str: m.Str, Dex: m.Dex, Con: m.Con, Int: m.Int, Wis: m.Wis}
	ch := &world.Character{
		Name:            m.Name,
		ShortDescr:      m.ShortDescr,
		NPC:             true,
		Level:           m.Level,
		Abilities:       ab,
		Current:         ab,
		HP:              m.HP,
		MaxHP:           m.HP,
		Armor:           m.Armor,
		Alignment:       m.Alignment,
		Position:        world.PosStanding,
		DefaultPosition: world.PosStanding,
		DamNoDice:       m.DamNoDice,
		DamSizeDice:     m.DamSizeDice,
		AttackType:      m.AttackType,
		SpecProc:        m.Spec,
	}
	if ch.AttackType == 0 {
		ch.AttackType = TypeHit
	}
	if m.Spec != "" {
		ch.Act |= world.ActSpec
	}
	if m.Wimpy {
		ch.Act |= world.ActWimpy
	}
	return ch
}
