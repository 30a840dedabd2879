package domain

import "time"

type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	ParentID     *int64     `json:"parentId,omitempty"`
	DisplayOrder int        `json:"displayOrder"`
	IsActive     bool       `json:"isActive"`
	Children     []Category `json:"children,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// BuildCategoryTree nests a flat category list by parent id, ordered by
// display order within each level.
func BuildCategoryTree(flat []Category) []Category {
	byParent := make(map[int64][]Category)
	var roots []Category
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}
	var attach func(c Category) Category
	attach = func(c Category) Category {
		for _, child := range byParent[c.ID] {
			c.Children = append(c.Children, attach(child))
		}
		return c
	}
	out := make([]Category, 0, len(roots))
	for _, r := range roots {
		out = append(out, attach(r))
	}
	return out
}
