package scan

import (
	"path/filepath"
	"sort"

	"github.com/hydrostack-labs/tuflowqa/pkg/control"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

// categoryOrder fixes the presentation order of the per-category
// subtrees under the model root.
var categoryOrder = []core.InputCategory{
	core.CategoryControl,
	core.CategoryInput,
	core.CategoryDatabase,
	core.CategoryGIS,
	core.CategoryGrid,
}

// BuildModelTree assembles the unified presentation tree: a "Control
// Files" subtree mirroring the include graph, then one subtree per
// referenced input category. Categories with no references are
// omitted. Files referenced with layer selectors become parent nodes
// with one child per layer.
func BuildModelTree(graph *control.ControlGraph, inputs []core.InputRef) *core.ModelNode {
	root := &core.ModelNode{Name: "Model Structure", Exists: true}

	if controlTree := buildControlSubtree(graph); controlTree != nil {
		root.Children = append(root.Children, controlTree)
	}

	byCategory := map[core.InputCategory][]core.InputRef{}
	for _, inp := range inputs {
		if inp.Category == core.CategoryControl {
			// Control files already appear in the include subtree.
			continue
		}
		byCategory[inp.Category] = append(byCategory[inp.Category], inp)
	}

	for _, cat := range categoryOrder {
		refs := byCategory[cat]
		if len(refs) == 0 {
			continue
		}
		root.Children = append(root.Children, buildCategorySubtree(cat, refs))
	}

	return root
}

// buildControlSubtree mirrors the include graph below the root control
// file. Each file appears once; repeat includes are collapsed onto
// their first occurrence.
func buildControlSubtree(graph *control.ControlGraph) *core.ModelNode {
	if graph == nil || graph.Root == "" {
		return nil
	}

	heading := &core.ModelNode{Name: core.CategoryControl.Title(), Exists: true}

	missing := map[string]bool{}
	for _, issue := range graph.Issues {
		if issue.ID == "CT001_CONTROL_FILE_MISSING" {
			missing[issue.File] = true
		}
	}

	visited := map[string]bool{}
	var build func(path string) *core.ModelNode
	build = func(path string) *core.ModelNode {
		node := &core.ModelNode{
			Name:     filepath.Base(path),
			Path:     path,
			Category: core.CategoryControl.String(),
			Exists:   !missing[path],
		}
		if visited[path] {
			return node
		}
		visited[path] = true
		for _, child := range graph.Edges[path] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	heading.Children = append(heading.Children, build(graph.Root))
	return heading
}

// buildCategorySubtree groups one category's references. Layered
// references to the same file share a parent node; plain references
// are leaves.
func buildCategorySubtree(cat core.InputCategory, refs []core.InputRef) *core.ModelNode {
	heading := &core.ModelNode{Name: cat.Title(), Exists: true}

	byPath := map[string][]core.InputRef{}
	var paths []string
	for _, ref := range refs {
		if _, ok := byPath[ref.Path]; !ok {
			paths = append(paths, ref.Path)
		}
		byPath[ref.Path] = append(byPath[ref.Path], ref)
	}
	sort.Strings(paths)

	for _, path := range paths {
		group := byPath[path]
		node := &core.ModelNode{
			Name:          filepath.Base(path),
			Path:          path,
			Category:      cat.String(),
			Exists:        group[0].Exists,
			SourceControl: group[0].SourceFile,
		}

		var layers []string
		for _, ref := range group {
			if ref.Layer != "" {
				layers = append(layers, ref.Layer)
			}
		}
		sort.Strings(layers)
		for _, layer := range layers {
			node.Children = append(node.Children, &core.ModelNode{
				Name:   layer,
				Exists: node.Exists,
			})
		}

		heading.Children = append(heading.Children, node)
	}

	return heading
}
