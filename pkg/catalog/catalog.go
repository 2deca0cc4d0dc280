package catalog

import "strings"

// Node types with special meaning to the layout engine. The vocabulary is
// open; any other type falls back to default placement.
const (
	TypeCrate       = "crate"
	TypeEnum        = "enum"
	TypeStruct      = "struct"
	TypeDTO         = "dto"
	TypeClassStruct = "class_struct"
	TypeInterface   = "interface"
	TypeTrait       = "trait"
	TypeMethod      = "method"
	TypeFunction    = "function"
)

// Edge types.
const (
	EdgeCalls     = "calls"
	EdgeReference = "reference"
	EdgeIncludes  = "includes"
)

// Details keys whose presence is significant.
const (
	DetailAttributes   = "attributes"
	DetailMethods      = "methods"
	DetailFunctions    = "functions"
	DetailValues       = "values"
	DetailInputParams  = "input_params"
	DetailReturnValues = "return_values"
	DetailHierarchy    = "hierarchy"
)

// Node is a single source-code entity.
type Node struct {
	ID          string         `json:"id" bson:"id"`
	Type        string         `json:"type" bson:"type"`
	Name        string         `json:"name" bson:"name"`
	Public      bool           `json:"public" bson:"public"`
	Filename    string         `json:"filename,omitempty" bson:"filename,omitempty"`
	StartLine   int            `json:"start_line,omitempty" bson:"start_line,omitempty"`
	EndLine     int            `json:"end_line,omitempty" bson:"end_line,omitempty"`
	SourceCode  string         `json:"source_code,omitempty" bson:"source_code,omitempty"`
	Description string         `json:"description,omitempty" bson:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty" bson:"details,omitempty"`
}

// Has reports whether the details bag carries key with a non-null value.
// An empty collection counts as present.
func (n *Node) Has(key string) bool {
	if n.Details == nil {
		return false
	}
	v, ok := n.Details[key]
	return ok && v != nil
}

// Hierarchy returns the textual form of details.hierarchy. Lists are joined
// with "/"; anything else yields "".
func (n *Node) Hierarchy() string {
	if n.Details == nil {
		return ""
	}
	switch v := n.Details[DetailHierarchy].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "/")
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "/")
	}
	return ""
}

// IsClassLike reports whether the node can own methods.
func (n *Node) IsClassLike() bool {
	switch n.Type {
	case TypeClassStruct, TypeStruct, TypeDTO, TypeInterface, TypeTrait:
		return true
	}
	return false
}

// IsMethod reports whether the node is a method.
func (n *Node) IsMethod() bool { return n.Type == TypeMethod }

// Edge is a directed, typed relation between two node ids. Endpoints are not
// guaranteed to exist.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Type string `json:"type" bson:"type"`
}

// Document is the on-disk catalog format.
type Document struct {
	Version string `json:"version,omitempty" bson:"version,omitempty"`
	Nodes   []Node `json:"nodes" bson:"nodes"`
	Edges   []Edge `json:"edges" bson:"edges"`
}

// Catalog is an immutable, indexed view of a node/edge collection.
//
// The zero value is not usable; construct with [New] or [FromDocument].
// A Catalog is safe for concurrent reads.
type Catalog struct {
	nodes []*Node
	edges []Edge
	byID  map[string]*Node
}

// New builds a catalog over copies of nodes and edges. When ids repeat,
// lookups resolve to the first occurrence; all nodes stay in [Catalog.Nodes].
func New(nodes []Node, edges []Edge) *Catalog {
	c := &Catalog{
		nodes: make([]*Node, len(nodes)),
		edges: append([]Edge(nil), edges...),
		byID:  make(map[string]*Node, len(nodes)),
	}
	for i := range nodes {
		n := nodes[i]
		c.nodes[i] = &n
		if _, dup := c.byID[n.ID]; !dup {
			c.byID[n.ID] = c.nodes[i]
		}
	}
	return c
}

// FromDocument builds a catalog from a decoded document.
func FromDocument(d *Document) *Catalog {
	return New(d.Nodes, d.Edges)
}

// Node looks up a node by id.
func (c *Catalog) Node(id string) (*Node, bool) {
	n, ok := c.byID[id]
	return n, ok
}

// Nodes returns all nodes in input order.
func (c *Catalog) Nodes() []*Node { return c.nodes }

// Edges returns all edges in input order.
func (c *Catalog) Edges() []Edge { return c.edges }

// NodeCount returns the number of nodes.
func (c *Catalog) NodeCount() int { return len(c.nodes) }

// EdgeCount returns the number of edges.
func (c *Catalog) EdgeCount() int { return len(c.edges) }

// EdgesOfType returns the edges whose type equals typ, in input order.
func (c *Catalog) EdgesOfType(typ string) []Edge {
	var out []Edge
	for _, e := range c.edges {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Document returns the catalog as a serializable document.
func (c *Catalog) Document() *Document {
	d := &Document{
		Nodes: make([]Node, len(c.nodes)),
		Edges: append([]Edge{}, c.edges...),
	}
	for i, n := range c.nodes {
		d.Nodes[i] = *n
	}
	return d
}
