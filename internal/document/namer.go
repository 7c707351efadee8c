package document

import "github.com/awkspace/runfile/pkg/domain"

// NameTargets assigns every named target in the tree a globally unique
// display name: root first, then children in declared include order. A
// target keeps its leaf name unless it collides with a name assigned
// earlier, in which case lineage aliases are prepended innermost first
// until the candidate is unique. Non-colliding targets therefore keep
// stable unqualified names no matter what the includes pull in.
func NameTargets(root *domain.Document) {
	assigned := make(map[string]bool)
	nameDocument(root, assigned)
}

func nameDocument(doc *domain.Document, assigned map[string]bool) {
	for _, target := range doc.Targets() {
		if target.Name == "" {
			continue
		}
		name := target.Name
		lineage := doc.Header.Lineage
		for i := len(lineage) - 1; i >= 0; i-- {
			if !assigned[name] {
				break
			}
			name = lineage[i].Alias + "/" + name
		}
		target.UniqueName = name
		assigned[name] = true
	}
	for _, child := range doc.Children() {
		nameDocument(child, assigned)
	}
}
