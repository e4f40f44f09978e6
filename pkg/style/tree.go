package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// TreeNode 树节点
type TreeNode struct {
	Text     string
	Children []TreeNode
}

// Add 追加子节点并返回它的指针，便于逐层构建
func (n *TreeNode) Add(text string) *TreeNode {
	n.Children = append(n.Children, TreeNode{Text: text})
	return &n.Children[len(n.Children)-1]
}

// PrintTree 渲染树，叶子节点使用次要文本色
func PrintTree(w io.Writer, root TreeNode) error {
	rootStyle := lipgloss.NewStyle().Foreground(ColorAccentPrimary).Bold(true)
	branchStyle := lipgloss.NewStyle().Foreground(ColorText)
	leafStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	enumStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	var build func(TreeNode) *tree.Tree
	build = func(node TreeNode) *tree.Tree {
		t := tree.New().Root(node.Text).EnumeratorStyle(enumStyle)
		for _, c := range node.Children {
			if len(c.Children) == 0 {
				t.Child(leafStyle.Render(c.Text))
				continue
			}
			t.Child(build(c).RootStyle(branchStyle))
		}
		return t
	}

	t := build(root).Enumerator(tree.RoundedEnumerator).RootStyle(rootStyle)
	_, err := fmt.Fprintln(w, t)
	return err
}
