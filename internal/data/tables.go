package data

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dikucore/server/internal/world"
)

//go:embed defaults/tables.yaml defaults/messages defaults/zone.yaml
var defaults embed.FS

// MaxTableLevel is the highest level every per-level table must cover.
const MaxTableLevel = 24

// StrApp is one row of the strength application table.
type StrApp struct {
	ToHit  int `yaml:"tohit"`
	ToDam  int `yaml:"todam"`
	CarryW int `yaml:"carry_w"`
	WieldW int `yaml:"wield_w"`
}

// Title is the rank reached at a level: the experience it takes and the
// male/female title string.
type Title struct {
	Exp    int    `yaml:"exp"`
	Male   string `yaml:"male"`
	Female string `yaml:"female"`
}

// WeaponVerb is the singular/plural verb pair a weapon attack narrates with.
type WeaponVerb struct {
	Singular string `yaml:"singular"`
	Plural   string `yaml:"plural"`
}

// DamageMessage is one damage-bucket template set.
type DamageMessage struct {
	ToRoom   string `yaml:"to_room"`
	ToChar   string `yaml:"to_char"`
	ToVictim string `yaml:"to_victim"`
}

// DamageBuckets are the inclusive upper bounds of the eight damage message
// sets; anything larger uses the last set.
var DamageBuckets = [...]int{0, 2, 4, 6, 10, 15, 20}

// Tables holds the immutable class and combat tables. Safe for concurrent
// reads once loaded.
type Tables struct {
	thac0          map[world.Class][]int
	strApp         []StrApp
	dexDefensive   []int
	conHitp        []int
	backstab       []int
	titles         map[world.Class][]Title
	verbs          map[int]WeaponVerb
	damageMessages []DamageMessage
}

// Thac0 returns the class to-hit baseline at level. Levels past the table
// use its last row.
func (t *Tables) Thac0(class world.Class, level int) int {
	return clampRow(t.thac0[class], level, 20)
}

// StrApp returns the strength row for an index from
// Character.StrengthApplyIndex.
func (t *Tables) StrApp(idx int) StrApp {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.strApp) {
		idx = len(t.strApp) - 1
	}
	return t.strApp[idx]
}

// DexDefensive returns the armor-class bonus for a dexterity score.
func (t *Tables) DexDefensive(dex int) int { return clampRow(t.dexDefensive, dex, 0) }

// ConHitp returns the per-level hit point bonus for a constitution score.
func (t *Tables) ConHitp(con int) int { return clampRow(t.conHitp, con, 0) }

// BackstabMult returns the backstab damage multiplier at level.
func (t *Tables) BackstabMult(level int) int { return clampRow(t.backstab, level, 1) }

// ExpForLevel returns the experience needed to hold level, and false past
// the end of the class table.
func (t *Tables) ExpForLevel(class world.Class, level int) (int, bool) {
	rows := t.titles[class]
	if level < 0 || level >= len(rows) {
		return 0, false
	}
	return rows[level].Exp, true
}

// Title returns the sex-specific title for class at level. Unknown classes
// and levels yield "".
func (t *Tables) Title(class world.Class, level int, sex world.Sex) string {
	rows := t.titles[class]
	if level < 0 || level >= len(rows) {
		return ""
	}
	if sex == world.SexFemale {
		return rows[level].Female
	}
	return rows[level].Male
}

// Verb returns the weapon verb for attack type, falling back to plain hits.
func (t *Tables) Verb(attackType int) WeaponVerb {
	if v, ok := t.verbs[attackType]; ok {
		return v
	}
	return t.verbs[TypeHit]
}

// IsWeaponType reports whether attackType has a weapon verb.
func (t *Tables) IsWeaponType(attackType int) bool {
	_, ok := t.verbs[attackType]
	return ok
}

// DamageMessage returns the template set for final damage dam.
func (t *Tables) DamageMessage(dam int) DamageMessage {
	for i, limit := range DamageBuckets {
		if dam <= limit {
			return t.damageMessages[i]
		}
	}
	return t.damageMessages[len(t.damageMessages)-1]
}

func clampRow(row []int, i, fallback int) int {
	if len(row) == 0 {
		return fallback
	}
	if i < 0 {
		i = 0
	}
	if i >= len(row) {
		i = len(row) - 1
	}
	return row[i]
}

// --- YAML loading ---

type tablesFile struct {
	Thac0          map[string][]int   `yaml:"thac0"`
	StrApp         []StrApp           `yaml:"str_app"`
	DexDefensive   []int              `yaml:"dex_defensive"`
	ConHitp        []int              `yaml:"con_hitp"`
	BackstabMult   []int              `yaml:"backstab_mult"`
	Titles         map[string][]Title `yaml:"titles"`
	WeaponVerbs    map[int]WeaponVerb `yaml:"weapon_verbs"`
	DamageMessages []DamageMessage    `yaml:"damage_messages"`
}

// LoadTables reads the tables from path, or the built-in defaults when path
// is empty.
func LoadTables(path string) (*Tables, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = defaults.ReadFile("defaults/tables.yaml")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	return ParseTables(raw)
}

// ParseTables decodes and validates a tables document.
func ParseTables(raw []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}

	t := &Tables{
		thac0:          make(map[world.Class][]int, len(f.Thac0)),
		strApp:         f.StrApp,
		dexDefensive:   f.DexDefensive,
		conHitp:        f.ConHitp,
		backstab:       f.BackstabMult,
		titles:         make(map[world.Class][]Title, len(f.Titles)),
		verbs:          f.WeaponVerbs,
		damageMessages: f.DamageMessages,
	}
	for name, row := range f.Thac0 {
		c, ok := world.ParseClass(name)
		if !ok || c == world.ClassNone {
			return nil, fmt.Errorf("parse tables: thac0: unknown class %q", name)
		}
		t.thac0[c] = row
	}
	for name, rows := range f.Titles {
		c, ok := world.ParseClass(name)
		if !ok || c == world.ClassNone {
			return nil, fmt.Errorf("parse tables: titles: unknown class %q", name)
		}
		t.titles[c] = rows
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	return t, nil
}

func (t *Tables) validate() error {
	for c := world.ClassMagicUser; c <= world.ClassWarrior; c++ {
		if n := len(t.thac0[c]); n <= MaxTableLevel {
			return fmt.Errorf("thac0 %s: %d rows, need %d", c, n, MaxTableLevel+1)
		}
		rows := t.titles[c]
		if len(rows) <= MaxTableLevel {
			return fmt.Errorf("titles %s: %d rows, need %d", c, len(rows), MaxTableLevel+1)
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Exp < rows[i-1].Exp {
				return fmt.Errorf("titles %s: exp decreases at level %d", c, i)
			}
		}
	}
	if len(t.strApp) != 31 {
		return fmt.Errorf("str_app: %d rows, need 31", len(t.strApp))
	}
	if len(t.dexDefensive) != 26 {
		return fmt.Errorf("dex_defensive: %d rows, need 26", len(t.dexDefensive))
	}
	if len(t.conHitp) != 26 {
		return fmt.Errorf("con_hitp: %d rows, need 26", len(t.conHitp))
	}
	if len(t.backstab) <= MaxTableLevel {
		return fmt.Errorf("backstab_mult: %d rows, need %d", len(t.backstab), MaxTableLevel+1)
	}
	if _, ok := t.verbs[TypeHit]; !ok {
		return fmt.Errorf("weapon_verbs: missing hit (%d)", TypeHit)
	}
	if len(t.damageMessages) != len(DamageBuckets)+1 {
		return fmt.Errorf("damage_messages: %d sets, need %d", len(t.damageMessages), len(DamageBuckets)+1)
	}
	return nil
}
