package core

// CategoryKind distinguishes the three shared category node families.
type CategoryKind string

const (
	CategorySymptom  CategoryKind = "symptom"
	CategoryCause    CategoryKind = "cause"
	CategorySolution CategoryKind = "solution"
)

// CategoryNode is a shared taxonomy node linked from many detail nodes.
// Nodes are merged by content ID so every ticket mapped to the same category
// references the same node.
type CategoryNode struct {
	Kind CategoryKind
	Name string
}

// Tuple returns a string representation of the node as "(Kind,Name)".
// This is used for generating deterministic IDs.
func (c CategoryNode) Tuple() string {
	return "(" + string(c.Kind) + "," + c.Name + ")"
}

// ContentID returns the deterministic node identifier.
func (c CategoryNode) ContentID() ID {
	return IDFromContent(c.Tuple())
}

// EntityKind distinguishes the technical entity node families.
type EntityKind string

const (
	EntityError EntityKind = "error"
	EntityEvent EntityKind = "event"
	EntityTag   EntityKind = "tag"
)

// EntityNode is a shared technical entity node (error code, event code, tag)
// linked from the tickets that reference it.
type EntityNode struct {
	Kind EntityKind
	Code string
}

// Tuple returns a string representation of the node as "(Kind,Code)".
func (e EntityNode) Tuple() string {
	return "(" + string(e.Kind) + "," + e.Code + ")"
}

// ContentID returns the deterministic node identifier.
func (e EntityNode) ContentID() ID {
	return IDFromContent(e.Tuple())
}

// ResourceNode is one link of the three-level resource hierarchy chain.
// Level 1 is the system, level 2 a module, level 3 a functionality. Parent
// is the name of the next node up the chain; empty for level 1.
type ResourceNode struct {
	Level  int
	Name   string
	Parent string
}

// ContentID returns the deterministic node identifier. Level is part of the
// identity so a module and a functionality sharing a name stay distinct.
func (r ResourceNode) ContentID() ID {
	return IDFromContent("(" + string(rune('0'+r.Level)) + "," + r.Name + ")")
}
