package service

import (
	"learnul_backend/internal/model"
	"sort"
	"strings"
)

// 课程目录排序方式
const (
	SortPopular   = "popular"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortStudents  = "students"
)

// CatalogFilter 对已获取的课程目录进一步筛选
type CatalogFilter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Sort     string // 为空时按热度排序
}

// FilterCourses 筛选并排序课程，不修改输入。未定价的课程不受价格区间限制。
// 排序是稳定的，相同键值和未知排序方式都保持原有顺序
func FilterCourses(courses []model.Course, f CatalogFilter) []model.Course {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.Description), search) &&
			!strings.Contains(strings.ToLower(c.Instructor), search) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(f.Category, "all") && c.Category != f.Category {
			continue
		}
		if c.Price > 0 {
			if f.MinPrice != nil && c.Price < *f.MinPrice {
				continue
			}
			if f.MaxPrice != nil && c.Price > *f.MaxPrice {
				continue
			}
		}
		out = append(out, c)
	}

	var less func(a, b model.Course) bool
	switch f.Sort {
	case SortPopular, "":
		less = func(a, b model.Course) bool { return a.Popularity > b.Popularity }
	case SortPriceLow:
		less = func(a, b model.Course) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b model.Course) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b model.Course) bool { return a.Rating > b.Rating }
	case SortStudents:
		less = func(a, b model.Course) bool { return a.StudentsEnrolled > b.StudentsEnrolled }
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
