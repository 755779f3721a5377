package graph

import "strings"

// String renders t as an indented text tree:
//
//	root
//	├── src
//	│   └── main.py
//	└── setup.py
func (t *Tree) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	sb.WriteString("\n")
	renderChildren(&sb, t.Children, "")
	return strings.TrimRight(sb.String(), "\n")
}

func renderChildren(sb *strings.Builder, children []*Tree, prefix string) {
	for i, c := range children {
		isLast := i == len(children)-1
		sb.WriteString(prefix)
		if isLast {
			sb.WriteString("└── ")
		} else {
			sb.WriteString("├── ")
		}
		sb.WriteString(c.Name)
		sb.WriteString("\n")

		if len(c.Children) > 0 {
			next := prefix
			if isLast {
				next += "    "
			} else {
				next += "│   "
			}
			renderChildren(sb, c.Children, next)
		}
	}
}
