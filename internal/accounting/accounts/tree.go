package accounts

import "sort"

// BuildTree groups a flat account list into parent/child nodes. Accounts are
// stored flat with a parent reference; the hierarchy only exists at read
// time. Orphans (parent deleted or missing) surface as roots rather than
// disappearing. Siblings are ordered by code.
func BuildTree(list []Account) []*TreeNode {
	nodes := make(map[int64]*TreeNode, len(list))
	for _, a := range list {
		nodes[a.ID] = &TreeNode{Account: a}
	}
	var roots []*TreeNode
	for _, a := range list {
		node := nodes[a.ID]
		if a.ParentID != nil {
			if parent, ok := nodes[*a.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
