package project

import (
	"fmt"
	"io"
	"strings"

	"github.com/yeisme/appforge/pkg/models"
	"github.com/yeisme/appforge/pkg/style"
)

// PrintResults 输出 make 结果，jsonOut 时输出 JSON
func PrintResults(w io.Writer, results []models.MakerResult, jsonOut bool) error {
	if jsonOut {
		if results == nil {
			results = []models.MakerResult{}
		}
		return style.PrintJSON(w, results)
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No artifacts were produced.")
		return err
	}
	headers := []string{"Target", "Maker", "Artifacts"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		target := models.Target{Platform: r.Platform, Arch: r.Arch}
		rows = append(rows, []string{target.String(), r.Maker, strings.Join(r.Artifacts, "\n")})
	}
	return style.PrintTable(w, headers, rows, 0)
}

// PrintPlan 以树的形式输出将要执行的工作项：平台 / 架构 / maker
func PrintPlan(w io.Writer, cfg *models.ProjectConfig, items []ResolvedItem) error {
	root := style.TreeNode{Text: fmt.Sprintf("%s %s", cfg.AppName(), cfg.AppVersion())}
	var platform *style.TreeNode
	for _, it := range items {
		if platform == nil || platform.Text != string(it.Platform) {
			platform = root.Add(string(it.Platform))
		}
		// 同一平台下按 maker 配置顺序排列，架构节点可能重复出现，查找已有节点
		arch := findChild(platform, string(it.Arch))
		if arch == nil {
			arch = platform.Add(string(it.Arch))
		}
		label := it.Maker
		if it.Spec.Raw != it.Maker {
			label = fmt.Sprintf("%s (%s)", it.Maker, it.Spec.Raw)
		}
		arch.Add(label)
	}
	return style.PrintTree(w, root)
}

func findChild(n *style.TreeNode, text string) *style.TreeNode {
	for i := range n.Children {
		if n.Children[i].Text == text {
			return &n.Children[i]
		}
	}
	return nil
}
