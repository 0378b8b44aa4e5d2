package narrate

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dikucore/server/internal/world"
)

// Sink receives rendered lines for one observer.
type Sink interface {
	Deliver(to *world.Character, line string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(to *world.Character, line string)

func (f SinkFunc) Deliver(to *world.Character, line string) { f(to, line) }

// Renderer resolves $-codes per observer over the world state and hands the
// result to a Sink. Only awake observers hear anything.
type Renderer struct {
	world *world.State
	sink  Sink
	log   *zap.Logger
	upper cases.Caser
}

func NewRenderer(ws *world.State, sink Sink, log *zap.Logger) *Renderer {
	return &Renderer{
		world: ws,
		sink:  sink,
		log:   log,
		upper: cases.Upper(language.English),
	}
}

func (r *Renderer) Act(a Act) {
	if a.Template == "" || a.Actor == nil {
		return
	}
	switch a.To {
	case ToVict:
		if a.Victim != nil {
			r.deliver(a.Victim, a)
		}
	case ToChar:
		r.deliver(a.Actor, a)
	default:
		for _, to := range r.world.Occupants(a.Actor.Room) {
			r.deliver(to, a)
		}
	}
}

func (r *Renderer) deliver(to *world.Character, a Act) {
	if to == a.Actor && (a.To == ToRoom || a.To == ToNotVict) {
		return
	}
	if a.To == ToNotVict && to == a.Victim {
		return
	}
	if !to.Awake() {
		return
	}
	if a.HideInvisible && !canSee(to, a.Actor) {
		return
	}
	r.sink.Deliver(to, r.capitalize(r.Render(to, a)))
}

// Render expands the template for observer to.
func (r *Renderer) Render(to *world.Character, a Act) string {
	var b strings.Builder
	s := a.Template
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch code := s[i]; code {
		case 'n':
			b.WriteString(pers(a.Actor, to))
		case 'N':
			b.WriteString(pers(a.Victim, to))
		case 'm':
			b.WriteString(objective(a.Actor))
		case 'M':
			b.WriteString(objective(a.Victim))
		case 's':
			b.WriteString(possessive(a.Actor))
		case 'S':
			b.WriteString(possessive(a.Victim))
		case 'e':
			b.WriteString(subjective(a.Actor))
		case 'E':
			b.WriteString(subjective(a.Victim))
		case 'o':
			b.WriteString(objName(a.Obj, to))
		case 'O':
			b.WriteString(objName(a.VictObj, to))
		case 'p':
			b.WriteString(objShort(a.Obj, to))
		case 'P':
			b.WriteString(objShort(a.VictObj, to))
		case 'a':
			b.WriteString(article(a.Obj, false))
		case 'A':
			b.WriteString(article(a.Obj, true))
		case 'T':
			b.WriteString(a.VictStr)
		case 'F':
			b.WriteString(firstName(a.VictStr))
		case '$':
			b.WriteByte('$')
		default:
			r.log.Warn("act 非法代碼", zap.String("template", a.Template), zap.String("code", string(code)))
		}
	}
	return b.String()
}

func (r *Renderer) capitalize(line string) string {
	first, size := utf8.DecodeRuneInString(line)
	if first == utf8.RuneError {
		return line
	}
	return r.upper.String(string(first)) + line[size:]
}

func canSee(to, ch *world.Character) bool {
	if ch == nil || to == ch {
		return true
	}
	if to.IsAffected(world.AffBlind) {
		return false
	}
	return !ch.IsAffected(world.AffInvisible) || to.IsAffected(world.AffDetectInvisible)
}

func pers(ch, to *world.Character) string {
	if ch == nil {
		return "someone"
	}
	if !canSee(to, ch) {
		return "someone"
	}
	if ch.NPC && ch.ShortDescr != "" {
		return ch.ShortDescr
	}
	return ch.Name
}

func objective(ch *world.Character) string {
	if ch == nil {
		return "it"
	}
	switch ch.Sex {
	case world.SexMale:
		return "him"
	case world.SexFemale:
		return "her"
	}
	return "it"
}

func possessive(ch *world.Character) string {
	if ch == nil {
		return "its"
	}
	switch ch.Sex {
	case world.SexMale:
		return "his"
	case world.SexFemale:
		return "her"
	}
	return "its"
}

func subjective(ch *world.Character) string {
	if ch == nil {
		return "it"
	}
	switch ch.Sex {
	case world.SexMale:
		return "he"
	case world.SexFemale:
		return "she"
	}
	return "it"
}

func objName(o *world.Object, to *world.Character) string {
	if o == nil || to.IsAffected(world.AffBlind) {
		return "something"
	}
	return firstName(o.Name)
}

func objShort(o *world.Object, to *world.Character) string {
	if o == nil || to.IsAffected(world.AffBlind) {
		return "something"
	}
	return o.ShortDescr
}

func article(o *world.Object, upper bool) string {
	an := o != nil && o.Name != "" && strings.ContainsRune("aeiouAEIOU", rune(o.Name[0]))
	switch {
	case an && upper:
		return "An"
	case an:
		return "an"
	case upper:
		return "A"
	}
	return "a"
}

func firstName(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
