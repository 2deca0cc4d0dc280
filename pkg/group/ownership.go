package group

import (
	"cmp"
	"slices"

	"github.com/matzehuels/codematrix/pkg/catalog"
)

// Divergence reasons.
const (
	ReasonPrefixOwner = "prefix-owner"  // id prefix names another class
	ReasonSecondEdge  = "repeated-edge" // another includes edge claimed the method first
)

// Divergence records a method whose ownership signals disagree.
type Divergence struct {
	Method     string `json:"method"`
	EdgeOwner  string `json:"edge_owner"`
	OtherOwner string `json:"other_owner"`
	Reason     string `json:"reason"`
}

// Owners is the class-to-method ownership of one catalog.
type Owners struct {
	methods     map[string][]*catalog.Node
	owner       map[string]string
	Divergences []Divergence
}

// Ownership resolves method ownership over the full catalog.
func Ownership(cat *catalog.Catalog) *Owners {
	o := &Owners{
		methods: make(map[string][]*catalog.Node),
		owner:   make(map[string]string),
	}

	for _, e := range cat.Edges() {
		if e.Type != catalog.EdgeIncludes || !catalog.HasClassMarker(e.From) || !catalog.HasMethodMarker(e.To) {
			continue
		}
		class, ok := cat.Node(e.From)
		if !ok {
			continue
		}
		method, ok := cat.Node(e.To)
		if !ok {
			continue
		}
		if prev, claimed := o.owner[method.ID]; claimed {
			if prev != class.ID {
				o.Divergences = append(o.Divergences, Divergence{
					Method: method.ID, EdgeOwner: prev, OtherOwner: class.ID, Reason: ReasonSecondEdge,
				})
			}
			continue
		}
		o.attach(class.ID, method)

		if p, ok := prefixOwner(cat, method); ok && p.ID != class.ID {
			o.Divergences = append(o.Divergences, Divergence{
				Method: method.ID, EdgeOwner: class.ID, OtherOwner: p.ID, Reason: ReasonPrefixOwner,
			})
		}
	}

	for _, n := range cat.Nodes() {
		if !n.IsMethod() {
			continue
		}
		if _, claimed := o.owner[n.ID]; claimed {
			continue
		}
		if p, ok := prefixOwner(cat, n); ok {
			o.attach(p.ID, n)
		}
	}

	for id := range o.methods {
		slices.SortStableFunc(o.methods[id], byName)
	}
	slices.SortFunc(o.Divergences, func(a, b Divergence) int {
		return cmp.Or(cmp.Compare(a.Method, b.Method), cmp.Compare(a.OtherOwner, b.OtherOwner), cmp.Compare(a.Reason, b.Reason))
	})
	return o
}

func (o *Owners) attach(classID string, method *catalog.Node) {
	o.owner[method.ID] = classID
	o.methods[classID] = append(o.methods[classID], method)
}

// prefixOwner returns the class-like node whose id is n's id minus its last
// segment.
func prefixOwner(cat *catalog.Catalog, n *catalog.Node) (*catalog.Node, bool) {
	parentID, ok := catalog.ParentID(n.ID)
	if !ok {
		return nil, false
	}
	p, ok := cat.Node(parentID)
	if !ok || !p.IsClassLike() {
		return nil, false
	}
	return p, true
}

// Methods returns the methods owned by classID, sorted by name.
func (o *Owners) Methods(classID string) []*catalog.Node {
	return o.methods[classID]
}

// Owner returns the class id that owns methodID.
func (o *Owners) Owner(methodID string) (string, bool) {
	id, ok := o.owner[methodID]
	return id, ok
}

// Len returns the number of owned methods.
func (o *Owners) Len() int { return len(o.owner) }

// ClassGroup is a class-like node with its owned methods.
type ClassGroup struct {
	Class   *catalog.Node
	Methods []*catalog.Node
}

// Classes builds one group per class-like node in nodes, sorted by class
// name. Classes without methods still form a group. The include filter, when
// non-nil, selects which owned methods are kept.
func (o *Owners) Classes(nodes []*catalog.Node, include func(*catalog.Node) bool) []ClassGroup {
	var groups []ClassGroup
	for _, n := range nodes {
		if !n.IsClassLike() {
			continue
		}
		g := ClassGroup{Class: n}
		for _, m := range o.methods[n.ID] {
			if include == nil || include(m) {
				g.Methods = append(g.Methods, m)
			}
		}
		groups = append(groups, g)
	}
	slices.SortStableFunc(groups, func(a, b ClassGroup) int { return byName(a.Class, b.Class) })
	return groups
}

func byName(a, b *catalog.Node) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
}

// SortByName returns a copy of nodes ordered by name, id breaking ties.
func SortByName(nodes []*catalog.Node) []*catalog.Node {
	out := slices.Clone(nodes)
	slices.SortStableFunc(out, byName)
	return out
}
