package ast

import (
	"strconv"
	"strings"
)

// Dump renders the subtree at i as a one-line S-expression. Leaves show
// their trimmed source text, groups are bracketed, absent slots print `_`
// and raw slots print as decimal integers.
func (s *Store) Dump(i Index) string {
	var sb strings.Builder
	s.dump(&sb, i)
	return sb.String()
}

// DumpRoot dumps from the root node.
func (s *Store) DumpRoot() string {
	return s.Dump(s.root)
}

func (s *Store) dump(sb *strings.Builder, i Index) {
	if !s.valid(i) {
		sb.WriteString("_")
		return
	}
	kind := s.nodes[i]
	sb.WriteByte('(')
	sb.WriteString(kind.String())

	if kind.IsLeaf() {
		text, _ := s.SourceText(i)
		sb.WriteByte(' ')
		sb.WriteString(text)
	}

	layout := ShapeOf(kind).Slots()
	for slot, value := range s.Children(i) {
		sb.WriteByte(' ')
		switch layout[slot] {
		case NodeSlot:
			s.dump(sb, Index(value))
		case RawSlot:
			sb.WriteString(strconv.FormatUint(uint64(value), 10))
		case MultiSlot:
			group, _ := s.MultiChildren(value)
			sb.WriteByte('[')
			for k, child := range group {
				if k > 0 {
					sb.WriteByte(' ')
				}
				s.dump(sb, child)
			}
			sb.WriteByte(']')
		}
	}
	sb.WriteByte(')')
}

// Walk visits every node reachable from i in pre-order. Raw slots are
// never followed.
func (s *Store) Walk(i Index, visit func(Index) bool) {
	if !s.valid(i) || !visit(i) {
		return
	}
	layout := ShapeOf(s.nodes[i]).Slots()
	for slot, value := range s.Children(i) {
		switch layout[slot] {
		case NodeSlot:
			s.Walk(Index(value), visit)
		case MultiSlot:
			group, _ := s.MultiChildren(value)
			for _, child := range group {
				s.Walk(child, visit)
			}
		}
	}
}
