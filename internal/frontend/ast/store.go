package ast

import (
	"fmt"

	"vex/internal/source"
)

// Index addresses a node in a Store. 0 means absent.
type Index uint32

const NoIndex Index = 0

func (i Index) IsValid() bool { return i != NoIndex }

// Slot is one entry of a node's child run, as passed to Append.
type Slot struct {
	kind  SlotKind
	node  Index
	nodes []Index
	raw   uint32
}

// One is a single child slot. Passing NoIndex records an absent child.
func One(i Index) Slot { return Slot{kind: NodeSlot, node: i} }

// Many is a length-prefixed group of children.
func Many(nodes []Index) Slot { return Slot{kind: MultiSlot, nodes: nodes} }

// Raw stores an integer that is not a node index.
func Raw(v uint32) Slot { return Slot{kind: RawSlot, raw: v} }

// Node is the composite view returned by Store.Node.
type Node struct {
	Kind     Kind
	Span     source.Span
	Children []uint32
}

// Store is the flat AST. nodes, spans and childrenStart are parallel and
// only ever grow. Multi groups are written into children before the run of
// the node that owns them, as a count followed by the elements.
type Store struct {
	nodes         []Kind
	spans         []source.Span
	childrenStart []uint32
	children      []uint32

	root Index
	file *source.File
}

// NewStore returns an empty store for file. Index 0 of the node arrays and
// of the children pool are placeholders so that 0 is never a real entry.
func NewStore(file *source.File) *Store {
	return &Store{
		nodes:         []Kind{Invalid},
		spans:         []source.Span{{}},
		childrenStart: []uint32{0},
		children:      []uint32{0},
		file:          file,
	}
}

// Append adds a node and returns its index. The slots must match the
// kind's shape exactly; a mismatch is a parser bug and panics.
func (s *Store) Append(kind Kind, span source.Span, slots ...Slot) Index {
	layout := ShapeOf(kind).Slots()
	if len(slots) != len(layout) {
		panic(fmt.Sprintf("ast: %v takes %d slots, got %d", kind, len(layout), len(slots)))
	}
	for i, slot := range slots {
		if slot.kind != layout[i] {
			panic(fmt.Sprintf("ast: %v slot %d is %v, got %v", kind, i, layout[i], slot.kind))
		}
	}

	values := make([]uint32, len(slots))
	for i, slot := range slots {
		switch slot.kind {
		case NodeSlot:
			values[i] = uint32(slot.node)
		case RawSlot:
			values[i] = slot.raw
		case MultiSlot:
			values[i] = uint32(len(s.children))
			s.children = append(s.children, uint32(len(slot.nodes)))
			for _, child := range slot.nodes {
				s.children = append(s.children, uint32(child))
			}
		}
	}

	idx := Index(len(s.nodes))
	s.nodes = append(s.nodes, kind)
	s.spans = append(s.spans, span)
	s.childrenStart = append(s.childrenStart, uint32(len(s.children)))
	s.children = append(s.children, values...)
	return idx
}

func (s *Store) valid(i Index) bool {
	return i != NoIndex && int(i) < len(s.nodes)
}

// Len is the number of entries including the reserved index 0.
func (s *Store) Len() int { return len(s.nodes) }

func (s *Store) File() *source.File { return s.file }

func (s *Store) Root() Index { return s.root }

func (s *Store) SetRoot(i Index) { s.root = i }

// Kind returns Invalid for absent or out-of-range indices.
func (s *Store) Kind(i Index) Kind {
	if !s.valid(i) {
		return Invalid
	}
	return s.nodes[i]
}

// Span returns the zero span for absent or out-of-range indices.
func (s *Store) Span(i Index) source.Span {
	if !s.valid(i) {
		return source.Span{}
	}
	return s.spans[i]
}

// Children returns the raw slot values of node i. Multi slots hold pool
// offsets for MultiChildren and raw slots hold their integer.
func (s *Store) Children(i Index) []uint32 {
	if !s.valid(i) {
		return nil
	}
	start := int(s.childrenStart[i])
	end := start + len(ShapeOf(s.nodes[i]).Slots())
	return s.children[start:end:end]
}

// MultiChildren resolves a group offset stored in a multi slot.
func (s *Store) MultiChildren(offset uint32) ([]Index, bool) {
	if offset == 0 || int(offset) >= len(s.children) {
		return nil, false
	}
	count := int(s.children[offset])
	start := int(offset) + 1
	if start+count > len(s.children) {
		return nil, false
	}
	out := make([]Index, count)
	for k := range out {
		out[k] = Index(s.children[start+k])
	}
	return out, true
}

func (s *Store) Node(i Index) (Node, bool) {
	if !s.valid(i) {
		return Node{}, false
	}
	return Node{Kind: s.nodes[i], Span: s.spans[i], Children: s.Children(i)}, true
}

// Child returns the node in slot of i, or NoIndex when the slot is absent
// or is not a node slot.
func (s *Store) Child(i Index, slot int) Index {
	if !s.slotIs(i, slot, NodeSlot) {
		return NoIndex
	}
	return Index(s.Children(i)[slot])
}

// Multi returns the elements of the group in slot of i.
func (s *Store) Multi(i Index, slot int) []Index {
	if !s.slotIs(i, slot, MultiSlot) {
		return nil
	}
	out, _ := s.MultiChildren(s.Children(i)[slot])
	return out
}

// RawValue returns the integer in a raw slot, 0 for anything else.
func (s *Store) RawValue(i Index, slot int) uint32 {
	if !s.slotIs(i, slot, RawSlot) {
		return 0
	}
	return s.Children(i)[slot]
}

func (s *Store) slotIs(i Index, slot int, want SlotKind) bool {
	if !s.valid(i) {
		return false
	}
	layout := ShapeOf(s.nodes[i]).Slots()
	return slot >= 0 && slot < len(layout) && layout[slot] == want
}

// SourceText is the trimmed text under a node's span. Only meaningful for
// leaves such as identifiers and literals.
func (s *Store) SourceText(i Index) (string, bool) {
	if !s.valid(i) || s.file == nil {
		return "", false
	}
	return s.file.TrimmedText(s.spans[i])
}
