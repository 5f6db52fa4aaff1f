package pagination

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"resumecanvas/internal/domain"
)

func exps(n int) []domain.Experience {
	out := make([]domain.Experience, n)
	for i := range out {
		out[i] = domain.Experience{Company: fmt.Sprintf("company-%d", i), Tasks: []string{"t"}}
	}
	return out
}

func edus(n int) []domain.Education {
	out := make([]domain.Education, n)
	for i := range out {
		out[i] = domain.Education{Institution: fmt.Sprintf("school-%d", i)}
	}
	return out
}

func projs(n int) []domain.ResumeProject {
	out := make([]domain.ResumeProject, n)
	for i := range out {
		out[i] = domain.ResumeProject{Name: fmt.Sprintf("project-%d", i)}
	}
	return out
}

type counts struct{ exp, edu, proj int }

func pageCounts(pages []domain.Page) []counts {
	out := make([]counts, len(pages))
	for i, p := range pages {
		out[i] = counts{len(p.Experiences), len(p.Education), len(p.Projects)}
	}
	return out
}

func TestPaginate_ExperienceOverflow(t *testing.T) {
	pages, err := Paginate(exps(5), nil, nil, Capacities{Experience: 3, Education: 3, Projects: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []counts{{3, 0, 0}, {2, 0, 0}}
	if got := pageCounts(pages); !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %+v, want %+v", got, want)
	}
}

func TestPaginate_EducationPriorityOnContinuation(t *testing.T) {
	pages, err := Paginate(exps(2), edus(4), nil, Capacities{Experience: 3, Education: 3, Projects: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []counts{{2, 3, 0}, {0, 1, 0}}
	if got := pageCounts(pages); !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %+v, want %+v", got, want)
	}
	if pages[1].Education[0].Institution != "school-3" {
		t.Errorf("page 2 education = %+v", pages[1].Education)
	}
}

func TestPaginate_ExperienceUsesEducationHeadroom(t *testing.T) {
	// Page 2: education takes 1 (of capacity 3), experience gets 3-1=2.
	pages, err := Paginate(exps(6), edus(4), nil, Capacities{Experience: 3, Education: 3, Projects: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []counts{{3, 3, 0}, {2, 1, 0}, {1, 0, 0}}
	if got := pageCounts(pages); !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %+v, want %+v", got, want)
	}
}

func TestPaginate_ProjectsWaitForEducationExhaustion(t *testing.T) {
	pages, err := Paginate(nil, edus(7), projs(4), Capacities{Experience: 2, Education: 3, Projects: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Page 1: 3 edu, 2 proj. Page 2: 3 edu, education still remaining -> no projects.
	// Page 3: last edu, education now exhausted -> 2 projects.
	want := []counts{{0, 3, 2}, {0, 3, 0}, {0, 1, 2}}
	if got := pageCounts(pages); !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %+v, want %+v", got, want)
	}
}

func TestPaginate_EmptyInputYieldsOneEmptyPage(t *testing.T) {
	pages, err := Paginate(nil, nil, nil, DefaultCapacities)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 || !pages[0].Empty() {
		t.Fatalf("expected a single empty page, got %+v", pages)
	}
}

func TestPaginate_InvalidCapacity(t *testing.T) {
	for _, caps := range []Capacities{
		{Experience: 0, Education: 3, Projects: 3},
		{Experience: 3, Education: 0, Projects: 3},
		{Experience: 3, Education: 3, Projects: -1},
	} {
		if _, err := Paginate(exps(1), nil, nil, caps); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("caps %+v: expected ErrInvalidCapacity, got %v", caps, err)
		}
	}
}

// TestPaginate_PartitionProperty checks, over random inputs, that pages
// concatenate back to the inputs, that only the first page may be empty and
// that per-page counts stay within their budgets.
func TestPaginate_PartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		caps := Capacities{
			Experience: 1 + rng.Intn(5),
			Education:  1 + rng.Intn(5),
			Projects:   1 + rng.Intn(5),
		}
		e, d, p := exps(rng.Intn(20)), edus(rng.Intn(20)), projs(rng.Intn(20))

		pages, err := Paginate(e, d, p, caps)
		if err != nil {
			t.Fatalf("caps %+v: %v", caps, err)
		}

		var gotE []domain.Experience
		var gotD []domain.Education
		var gotP []domain.ResumeProject
		for i, pg := range pages {
			gotE = append(gotE, pg.Experiences...)
			gotD = append(gotD, pg.Education...)
			gotP = append(gotP, pg.Projects...)

			if i > 0 && pg.Empty() {
				t.Fatalf("iter %d: empty continuation page %d", iter, i)
			}
			if len(pg.Education) > caps.Education || len(pg.Projects) > caps.Projects {
				t.Fatalf("iter %d: page %d over capacity: %+v caps %+v", iter, i, pageCounts(pages)[i], caps)
			}
			expBudget := caps.Experience
			if i > 0 {
				expBudget = caps.Education - len(pg.Education)
			}
			if len(pg.Experiences) > expBudget {
				t.Fatalf("iter %d: page %d experience %d exceeds budget %d", iter, i, len(pg.Experiences), expBudget)
			}
		}
		if len(gotE) != len(e) || len(gotD) != len(d) || len(gotP) != len(p) {
			t.Fatalf("iter %d: lost entries: %d/%d %d/%d %d/%d", iter, len(gotE), len(e), len(gotD), len(d), len(gotP), len(p))
		}
		if len(e) > 0 && !reflect.DeepEqual(gotE, e) {
			t.Fatalf("iter %d: experiences reordered", iter)
		}
		if len(d) > 0 && !reflect.DeepEqual(gotD, d) {
			t.Fatalf("iter %d: education reordered", iter)
		}
		if len(p) > 0 && !reflect.DeepEqual(gotP, p) {
			t.Fatalf("iter %d: projects reordered", iter)
		}
	}
}

func TestTake_DoesNotAliasBeyondSlice(t *testing.T) {
	list := []int{1, 2, 3, 4}
	idx := 0
	first := take(list, &idx, 2)
	first = append(first, 99)
	if list[2] != 3 {
		t.Errorf("append through page slice overwrote source: %v", list)
	}
	if idx != 2 {
		t.Errorf("idx = %d", idx)
	}
}
