package data

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MsgSet is what the attacker, the victim and the rest of the room see. An
// empty string means that observer gets nothing.
type MsgSet struct {
	Attacker string
	Victim   string
	Room     string
}

// FightMessage is one candidate narration for an attack type.
type FightMessage struct {
	Die  MsgSet
	Miss MsgSet
	Hit  MsgSet
	God  MsgSet
}

// FightMessages maps attack type to its candidate messages. Immutable once
// loaded.
type FightMessages struct {
	byType map[int][]FightMessage
}

// Get returns the candidates for attackType, or nil.
func (m *FightMessages) Get(attackType int) []FightMessage {
	if m == nil {
		return nil
	}
	return m.byType[attackType]
}

// Count returns the number of attack types with messages.
func (m *FightMessages) Count() int {
	if m == nil {
		return 0
	}
	return len(m.byType)
}

// LoadFightMessages reads a messages file from path, or the built-in
// defaults when path is empty.
func LoadFightMessages(path string) (*FightMessages, error) {
	var (
		raw []byte
		err error
	)
	if path == "" {
		raw, err = defaults.ReadFile("defaults/messages")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	m, err := ParseFightMessages(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return m, nil
}

// ParseFightMessages decodes the line-oriented messages format: lines
// starting with * are comments, M opens a record followed by the attack type
// and twelve ~-terminated strings (die, miss, hit, god; each attacker,
// victim, room), and $ ends the file. A string of just # is no message.
func ParseFightMessages(r io.Reader) (*FightMessages, error) {
	p := &msgParser{sc: bufio.NewScanner(r)}
	m := &FightMessages{byType: make(map[int][]FightMessage)}
	for {
		line, ok := p.next()
		if !ok || line == "$" {
			break
		}
		if line != "M" {
			return nil, fmt.Errorf("line %d: expected M, got %q", p.line, line)
		}
		numLine, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("line %d: missing attack type", p.line)
		}
		attackType, err := strconv.Atoi(numLine)
		if err != nil {
			return nil, fmt.Errorf("line %d: attack type: %w", p.line, err)
		}
		var sets [4]MsgSet
		for i := range sets {
			if sets[i], err = p.set(); err != nil {
				return nil, err
			}
		}
		m.byType[attackType] = append(m.byType[attackType], FightMessage{
			Die: sets[0], Miss: sets[1], Hit: sets[2], God: sets[3],
		})
	}
	if err := p.sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

type msgParser struct {
	sc   *bufio.Scanner
	line int
}

// next returns the next non-blank, non-comment line, trimmed.
func (p *msgParser) next() (string, bool) {
	for p.sc.Scan() {
		p.line++
		s := strings.TrimSpace(p.sc.Text())
		if s == "" || strings.HasPrefix(s, "*") {
			continue
		}
		return s, true
	}
	return "", false
}

// str reads one ~-terminated string, which may span lines.
func (p *msgParser) str() (string, error) {
	var b strings.Builder
	for p.sc.Scan() {
		p.line++
		text := p.sc.Text()
		if b.Len() == 0 && strings.TrimSpace(text) == "" {
			continue
		}
		if i := strings.IndexByte(text, '~'); i >= 0 {
			b.WriteString(text[:i])
			s := strings.TrimSpace(b.String())
			if s == "#" {
				s = ""
			}
			return s, nil
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return "", fmt.Errorf("line %d: unterminated message string", p.line)
}

func (p *msgParser) set() (MsgSet, error) {
	var s MsgSet
	var err error
	if s.Attacker, err = p.str(); err != nil {
		return s, err
	}
	if s.Victim, err = p.str(); err != nil {
		return s, err
	}
	if s.Room, err = p.str(); err != nil {
		return s, err
	}
	return s, nil
}
