package scan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrostack-labs/tuflowqa/pkg/core"
)

func childNamed(t *testing.T, node *core.ModelNode, name string) *core.ModelNode {
	t.Helper()
	for _, child := range node.Children {
		if child.Name == name {
			return child
		}
	}
	t.Fatalf("node %q has no child %q", node.Name, name)
	return nil
}

func TestBuildModelTree_ControlSubtreeMirrorsIncludes(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	tgc := filepath.Join(dir, "model.tgc")
	tbc := filepath.Join(dir, "model.tbc")

	writeFile(t, root, "Geometry Control File == model.tgc\n"+
		"BC Control File == model.tbc\n")
	writeFile(t, tgc, "Cell Size == 5\n")
	writeFile(t, tbc, "Read BC == bc.gpkg | 2d_bc\n")

	result := NewScanner(Options{}).Scan(root)
	tree := result.Tree

	require.NotNil(t, tree)
	assert.Equal(t, "Model Structure", tree.Name)

	controls := childNamed(t, tree, "Control Files")
	rootNode := childNamed(t, controls, "model.tcf")
	assert.Equal(t, root, rootNode.Path)
	assert.True(t, rootNode.Exists)
	assert.Len(t, rootNode.Children, 2)
	assert.True(t, childNamed(t, rootNode, "model.tgc").Exists)
}

func TestBuildModelTree_LayeredFileGetsLayerChildren(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "Read GIS == model.gpkg | 2d_code\n"+
		"Read GIS Z Shape == model.gpkg | 2d_zsh\n")
	writeFile(t, filepath.Join(dir, "model.gpkg"), "")

	result := NewScanner(Options{}).Scan(root)

	gis := childNamed(t, result.Tree, "GIS Layers")
	file := childNamed(t, gis, "model.gpkg")
	assert.True(t, file.Exists)
	require.Len(t, file.Children, 2)
	assert.Equal(t, "2d_code", file.Children[0].Name)
	assert.Equal(t, "2d_zsh", file.Children[1].Name)
}

func TestBuildModelTree_EmptyCategoriesOmitted(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "BC Database == bc_dbase.csv\n")

	result := NewScanner(Options{}).Scan(root)

	var names []string
	for _, child := range result.Tree.Children {
		names = append(names, child.Name)
	}
	assert.Equal(t, []string{"Control Files", "Databases"}, names)
}

func TestBuildModelTree_MissingControlFileMarkedAbsent(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "Geometry Control File == missing.tgc\n")

	result := NewScanner(Options{}).Scan(root)

	controls := childNamed(t, result.Tree, "Control Files")
	rootNode := childNamed(t, controls, "model.tcf")
	missing := childNamed(t, rootNode, "missing.tgc")
	assert.False(t, missing.Exists)
	assert.True(t, rootNode.Exists)
}

func TestModelNode_LeafCount(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "model.tcf")
	writeFile(t, root, "BC Database == bc_dbase.csv\n"+
		"Read Grid == dem.tif\n")

	result := NewScanner(Options{}).Scan(root)

	// One control leaf plus the two input leaves.
	assert.Equal(t, 3, result.Tree.LeafCount())
}
