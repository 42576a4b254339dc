package output

import (
	"sort"
	"strings"
)

// TreeNode is one line of a rendered tree
type TreeNode struct {
	Label     string
	Protected bool
	Children  []TreeNode
}

const (
	branch   = "\u251c\u2500\u2500 " // ├──
	last     = "\u2514\u2500\u2500 " // └──
	lockMark = " \U0001F512"          // 🔒
)

// RenderTreeLines renders the roots and their children, one string per line
func RenderTreeLines(roots []TreeNode) []string {
	var lines []string
	for _, root := range roots {
		lines = append(lines, root.Label+mark(root))
		lines = append(lines, renderTreeNodes(root.Children, "")...)
	}
	return lines
}

func renderTreeNodes(nodes []TreeNode, prefix string) []string {
	var lines []string
	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := branch
		childPrefix := prefix + "\u2502   " // │
		if isLast {
			connector = last
			childPrefix = prefix + "    "
		}

		lines = append(lines, prefix+connector+node.Label+mark(node))
		lines = append(lines, renderTreeNodes(node.Children, childPrefix)...)
	}
	return lines
}

func mark(n TreeNode) string {
	if n.Protected {
		return lockMark
	}
	return ""
}

// DocumentEntry is a document to place in a directory tree
type DocumentEntry struct {
	Dir       string
	Label     string
	Protected bool
}

// GroupByDir builds one root per directory, sorted by directory, with the
// documents in input order beneath it.
func GroupByDir(entries []DocumentEntry) []TreeNode {
	byDir := make(map[string][]TreeNode)
	var dirs []string
	for _, e := range entries {
		if _, ok := byDir[e.Dir]; !ok {
			dirs = append(dirs, e.Dir)
		}
		byDir[e.Dir] = append(byDir[e.Dir], TreeNode{Label: e.Label, Protected: e.Protected})
	}
	sort.Strings(dirs)

	roots := make([]TreeNode, len(dirs))
	for i, d := range dirs {
		label := d
		if !strings.HasSuffix(label, "/") {
			label += "/"
		}
		roots[i] = TreeNode{Label: label, Children: byDir[d]}
	}
	return roots
}
