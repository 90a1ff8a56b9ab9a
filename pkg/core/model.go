package core

// InputRef is one external file reference discovered in the
// configuration graph. Path is always absolute with placeholders
// already substituted. References are deduplicated by
// (Path, Category, Layer) across the whole scan.
type InputRef struct {
	Path string `json:"path" yaml:"path"`
	// Category is looked up from the directive tables, never guessed
	// from the extension.
	Category InputCategory `json:"category" yaml:"category"`
	// SourceFile is the control file the directive appeared in.
	SourceFile string `json:"source_file" yaml:"source_file"`
	Line       int    `json:"line" yaml:"line"`
	Exists     bool   `json:"exists" yaml:"exists"`
	// Layer is the optional "file | layer" sub-selector. Empty means
	// the reference names the whole file.
	Layer string `json:"layer,omitempty" yaml:"layer,omitempty"`
}

// ModelNode is one node of the unified presentation tree. Nodes are
// built bottom-up and never mutated after construction.
type ModelNode struct {
	Name string `json:"name" yaml:"name"`
	// Path is empty for grouping nodes (category headings, layer names).
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Exists   bool   `json:"exists" yaml:"exists"`
	// SourceControl names the control file that referenced this node.
	SourceControl string       `json:"source_control,omitempty" yaml:"source_control,omitempty"`
	Children      []*ModelNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// LeafCount returns the number of leaf nodes with a path below (and
// including) this node.
func (n *ModelNode) LeafCount() int {
	if n == nil {
		return 0
	}
	if len(n.Children) == 0 {
		if n.Path != "" {
			return 1
		}
		return 0
	}
	count := 0
	for _, child := range n.Children {
		count += child.LeafCount()
	}
	return count
}

// Walk visits the node and all descendants depth-first.
func (n *ModelNode) Walk(fn func(*ModelNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
