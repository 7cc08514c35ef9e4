package domain

import "strings"

// PathSeparator joins category names into a full breadcrumb path.
const PathSeparator = " > "

// CategoryNode is a single entry of the marketplace category tree.
type CategoryNode struct {
	Name     string         `json:"name"`
	ID       string         `json:"id"`
	Children []CategoryNode `json:"child,omitempty"`
}

// CategoryPath builds the full breadcrumb path like "家電・スマホ・カメラ > スマートフォン".
func CategoryPath(parts ...string) string {
	return strings.Join(parts, PathSeparator)
}
