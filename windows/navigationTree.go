// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// TreeNodeType represents the type of node in the navigation tree
type TreeNodeType string

const (
	NodeTypeSource TreeNodeType = "source"
	NodeTypeTable  TreeNodeType = "table"
)

// TreeNode represents a node in the navigation tree
type TreeNode struct {
	ID       string       // Unique identifier
	NodeType TreeNodeType // Type of node
	Name     string       // Display name
	Data     *Data        // Open table (table nodes only)
	Children []string     // Child node IDs
}

// NavigationTree lists the open sources and their tables. Selecting a
// table brings its tab to the front.
type NavigationTree struct {
	nodes   map[string]*TreeNode
	rootIDs []string
	browser *DataBrowser
	tree    *widget.Tree
}

// NewNavigationTree creates the tree for the tables of browser.
func NewNavigationTree(browser *DataBrowser) *NavigationTree {
	nt := &NavigationTree{
		nodes:   make(map[string]*TreeNode),
		rootIDs: make([]string, 0),
		browser: browser,
	}

	nt.tree = widget.NewTree(
		nt.GetChildren,
		nt.IsBranch,
		func(branch bool) fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("template"))
		},
		nt.UpdateNodeDisplay,
	)
	nt.tree.OnSelected = func(id widget.TreeNodeID) {
		if node := nt.GetNode(id); node != nil && node.Data != nil {
			nt.browser.Select(node.Data)
		}
	}
	return nt
}

// Widget returns the tree widget.
func (nt *NavigationTree) Widget() fyne.CanvasObject {
	return nt.tree
}

// GenerateNodeID creates a unique ID for a tree node
func (nt *NavigationTree) GenerateNodeID(nodeType TreeNodeType, sourceIndex, tableIndex int) string {
	switch nodeType {
	case NodeTypeSource:
		return fmt.Sprintf("source:%d", sourceIndex)
	case NodeTypeTable:
		return fmt.Sprintf("source:%d:table:%d", sourceIndex, tableIndex)
	default:
		return ""
	}
}

// ParseNodeID extracts components from a node ID
func (nt *NavigationTree) ParseNodeID(nodeID string) (nodeType TreeNodeType, sourceIndex, tableIndex int) {
	parts := strings.Split(nodeID, ":")
	sourceIndex, tableIndex = -1, -1

	if len(parts) >= 2 && parts[0] == "source" {
		nodeType = NodeTypeSource
		sourceIndex, _ = strconv.Atoi(parts[1])
	}

	if len(parts) >= 4 && parts[2] == "table" {
		nodeType = NodeTypeTable
		tableIndex, _ = strconv.Atoi(parts[3])
	}

	return
}

// Rebuild regenerates the nodes from the open tabs, grouping tables by
// the source they were loaded from.
func (nt *NavigationTree) Rebuild() {
	nt.nodes = make(map[string]*TreeNode)
	nt.rootIDs = nt.rootIDs[:0]

	sourceIndex := make(map[string]int)
	for _, data := range nt.browser.Tables() {
		si, ok := sourceIndex[data.source]
		if !ok {
			si = len(nt.rootIDs)
			sourceIndex[data.source] = si
			id := nt.GenerateNodeID(NodeTypeSource, si, 0)
			nt.rootIDs = append(nt.rootIDs, id)
			nt.nodes[id] = &TreeNode{
				ID:       id,
				NodeType: NodeTypeSource,
				Name:     data.source,
			}
		}

		parent := nt.nodes[nt.rootIDs[si]]
		tableID := nt.GenerateNodeID(NodeTypeTable, si, len(parent.Children))
		nt.nodes[tableID] = &TreeNode{
			ID:       tableID,
			NodeType: NodeTypeTable,
			Name:     data.Name(),
			Data:     data,
		}
		parent.Children = append(parent.Children, tableID)
	}

	if nt.tree != nil {
		nt.tree.Refresh()
		for _, id := range nt.rootIDs {
			nt.tree.OpenBranch(id)
		}
	}
}

// GetChildren returns the child node IDs for a given parent node
// Returns root nodes if nodeID is empty
func (nt *NavigationTree) GetChildren(nodeID widget.TreeNodeID) []widget.TreeNodeID {
	if nodeID == "" {
		return nt.rootIDs
	}

	node, exists := nt.nodes[nodeID]
	if !exists {
		return []widget.TreeNodeID{}
	}

	return node.Children
}

// IsBranch returns true if the node can have children
func (nt *NavigationTree) IsBranch(nodeID widget.TreeNodeID) bool {
	if nodeID == "" {
		return true
	}

	node, exists := nt.nodes[nodeID]
	if !exists {
		return false
	}

	return node.NodeType == NodeTypeSource
}

// GetNode retrieves a node by ID
func (nt *NavigationTree) GetNode(nodeID widget.TreeNodeID) *TreeNode {
	return nt.nodes[nodeID]
}

// UpdateNodeDisplay updates the visual representation of a tree node
func (nt *NavigationTree) UpdateNodeDisplay(nodeID widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
	node := nt.GetNode(nodeID)
	if node == nil {
		return
	}

	box, ok := obj.(*fyne.Container)
	if !ok || len(box.Objects) < 2 {
		return
	}

	if icon, ok := box.Objects[0].(*widget.Icon); ok {
		switch node.NodeType {
		case NodeTypeSource:
			icon.SetResource(theme.FolderOpenIcon())
		case NodeTypeTable:
			icon.SetResource(theme.GridIcon())
		}
	}

	if label, ok := box.Objects[1].(*widget.Label); ok {
		text := node.Name
		if node.NodeType == NodeTypeSource {
			text = displayName(node.Name)
		}
		label.SetText(text)
	}
}

// displayName shortens a file path to its base name.
func displayName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}
