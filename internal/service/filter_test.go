package service

import (
	"learnul_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func titles(cs []model.Course) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestFilterCourses(t *testing.T) {
	courses := []model.Course{
		{Title: "Go Basics", Category: "programming", Price: 20, Rating: 4.5, StudentsEnrolled: 10, Popularity: 3},
		{Title: "Watercolor", Category: "art", Price: 0, Rating: 4.8, StudentsEnrolled: 2, Popularity: 9, Instructor: "Gopher Jane"},
		{Title: "Advanced Go", Category: "programming", Price: 80, Rating: 4.5, StudentsEnrolled: 30, Popularity: 5},
		{Title: "Rust", Category: "programming", Price: 50, Rating: 3.9, StudentsEnrolled: 30, Description: "systems"},
	}

	assert.Equal(t, []string{"Watercolor", "Advanced Go", "Go Basics"}, titles(FilterCourses(courses, CatalogFilter{Search: "go"})),
		"no sort key means most popular first")
	assert.Equal(t, []string{"Go Basics", "Watercolor", "Advanced Go"}, titles(FilterCourses(courses, CatalogFilter{Search: "go", Sort: "newest"})),
		"unknown sort keys keep store order")
	assert.Equal(t, []string{"Rust"}, titles(FilterCourses(courses, CatalogFilter{Search: "SYSTEMS"})))
	assert.Len(t, FilterCourses(courses, CatalogFilter{Category: "all"}), 4)
	assert.Equal(t, []string{"Watercolor"}, titles(FilterCourses(courses, CatalogFilter{Category: "art"})))

	min, max := 30.0, 60.0
	assert.Equal(t, []string{"Watercolor", "Rust"}, titles(FilterCourses(courses, CatalogFilter{MinPrice: &min, MaxPrice: &max})),
		"unpriced courses pass any price range")

	assert.Equal(t, []string{"Watercolor", "Go Basics", "Rust", "Advanced Go"}, titles(FilterCourses(courses, CatalogFilter{Sort: SortPriceLow})))
	assert.Equal(t, []string{"Advanced Go", "Rust", "Go Basics", "Watercolor"}, titles(FilterCourses(courses, CatalogFilter{Sort: SortPriceHigh})))
	assert.Equal(t, []string{"Watercolor", "Go Basics", "Advanced Go", "Rust"}, titles(FilterCourses(courses, CatalogFilter{Sort: SortRating})))
	assert.Equal(t, []string{"Advanced Go", "Rust", "Go Basics", "Watercolor"}, titles(FilterCourses(courses, CatalogFilter{Sort: SortStudents})))
	assert.Equal(t, []string{"Watercolor", "Advanced Go", "Go Basics", "Rust"}, titles(FilterCourses(courses, CatalogFilter{Sort: SortPopular})))

	assert.Equal(t, "Go Basics", courses[0].Title, "input is not reordered")
}

func TestFilterUsers(t *testing.T) {
	users := []model.User{
		{Email: "carol@x.io", DisplayName: "Carol", Role: model.Teacher},
		{Email: "alice@x.io", DisplayName: "Alice", Role: model.Student, Disabled: true},
		{Email: "bob@x.io", DisplayName: "Bob", Role: model.Admin},
	}
	names := func(us []model.User) []string {
		out := make([]string, len(us))
		for i, u := range us {
			out[i] = u.DisplayName
		}
		return out
	}

	assert.Equal(t, []string{"Alice"}, names(FilterUsers(users, UserFilter{Search: "ALI"})))
	assert.Equal(t, []string{"Carol"}, names(FilterUsers(users, UserFilter{Role: "teacher"})))
	assert.Equal(t, []string{"Alice"}, names(FilterUsers(users, UserFilter{Status: "disabled"})))
	assert.Equal(t, []string{"Carol", "Bob"}, names(FilterUsers(users, UserFilter{Status: "active"})))
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names(FilterUsers(users, UserFilter{SortBy: "name"})))
	assert.Equal(t, []string{"Carol", "Bob", "Alice"}, names(FilterUsers(users, UserFilter{SortBy: "email", Desc: true})))
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, names(FilterUsers(users, UserFilter{SortBy: "role"})))
}
