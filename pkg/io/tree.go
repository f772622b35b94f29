package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/craftplan/pkg/planner"
)

type treeNode struct {
	Item     string      `json:"item"`
	Name     string      `json:"name,omitempty"`
	Base     bool        `json:"base"`
	Reason   string      `json:"reason,omitempty"`
	Recipes  []string    `json:"recipes,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

type treeDoc struct {
	Target    string    `json:"target"`
	Nodes     int       `json:"nodes"`
	Truncated bool      `json:"truncated,omitempty"`
	Root      *treeNode `json:"root"`
}

// WriteTreeJSON writes t as nested JSON.
func WriteTreeJSON(t *planner.Tree, w io.Writer) error {
	doc := treeDoc{
		Target:    t.Target(),
		Nodes:     t.Len(),
		Truncated: t.Truncated(),
	}
	if t.Len() > 0 {
		doc.Root = convertNode(t, t.Root())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func convertNode(t *planner.Tree, id planner.NodeID) *treeNode {
	n := t.Node(id)
	out := &treeNode{
		Item:   n.ItemID,
		Name:   n.ItemName,
		Base:   n.IsBase,
		Reason: string(n.Reason),
	}
	for _, r := range n.Recipes {
		out.Recipes = append(out.Recipes, r.ID)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, convertNode(t, c))
	}
	return out
}
