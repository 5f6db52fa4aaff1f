// Package pagination distributes structured resume entries across
// fixed-capacity pages.
package pagination

import (
	"errors"
	"fmt"

	"resumecanvas/internal/domain"
)

var ErrInvalidCapacity = errors.New("pagination: capacities must be at least 1")

// Capacities is the number of entries of each category a page can hold.
type Capacities struct {
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Projects   int `json:"projects"`
}

var DefaultCapacities = Capacities{Experience: 3, Education: 3, Projects: 3}

func (c Capacities) validate() error {
	if c.Experience < 1 || c.Education < 1 || c.Projects < 1 {
		return fmt.Errorf("%w: %+v", ErrInvalidCapacity, c)
	}
	return nil
}

// Paginate partitions the three lists into pages, preserving order.
//
// Page 1 takes up to each category's own capacity. Continuation pages
// fill education first; experience only gets the education headroom left
// on that page; projects are added only once every education entry has
// been placed. Continuation pages with no entries are not emitted, so
// the first page is always present and is the only one that may be empty.
func Paginate(experiences []domain.Experience, education []domain.Education, projects []domain.ResumeProject, caps Capacities) ([]domain.Page, error) {
	if err := caps.validate(); err != nil {
		return nil, err
	}

	var expIdx, eduIdx, projIdx int

	first := domain.Page{
		Experiences: take(experiences, &expIdx, caps.Experience),
		Education:   take(education, &eduIdx, caps.Education),
		Projects:    take(projects, &projIdx, caps.Projects),
	}
	pages := []domain.Page{first}

	for expIdx < len(experiences) || eduIdx < len(education) || projIdx < len(projects) {
		var page domain.Page
		page.Education = take(education, &eduIdx, caps.Education)

		headroom := caps.Education - len(page.Education)
		page.Experiences = take(experiences, &expIdx, headroom)

		if eduIdx >= len(education) {
			page.Projects = take(projects, &projIdx, caps.Projects)
		}

		if page.Empty() {
			// Unreachable with capacities >= 1: education always makes
			// progress, and once it is exhausted both experience and
			// projects get a full budget.
			break
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// PaginateResume is Paginate over the lists of r.
func PaginateResume(r domain.Resume, caps Capacities) ([]domain.Page, error) {
	return Paginate(r.Experiences, r.Education, r.Projects, caps)
}

// take returns up to n items of list starting at *idx and advances *idx.
// The result shares list's backing array.
func take[T any](list []T, idx *int, n int) []T {
	if n <= 0 || *idx >= len(list) {
		return nil
	}
	end := min(*idx+n, len(list))
	out := list[*idx:end:end]
	*idx = end
	return out
}
