package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"resumecanvas/internal/domain"
)

// runeWidth treats every rune as 1mm at 10pt, scaled linearly.
func runeWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size / 10
}

func TestWrap(t *testing.T) {
	w := func(s string) float64 { return runeWidth(s, 10) }
	cases := []struct {
		in    string
		limit float64
		want  []string
	}{
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 100, []string{"one two three"}},
		{"a\nb c", 100, []string{"a", "b c"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"hi abcdefgh", 4, []string{"hi", "abcd", "efgh"}},
		{"   ", 10, nil},
	}
	for _, c := range cases {
		got := wrap(c.in, c.limit, w)
		if strings.Join(got, "|") != strings.Join(c.want, "|") {
			t.Errorf("wrap(%q, %v) = %q, want %q", c.in, c.limit, got, c.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	if got := dateRange("2020", ""); got != "2020 - Present" {
		t.Errorf("open range = %q", got)
	}
	if got := dateRange("", ""); got != "" {
		t.Errorf("empty range = %q", got)
	}
	if got := dateRange("2019", "2021"); got != "2019 - 2021" {
		t.Errorf("closed range = %q", got)
	}
}

func sampleResume() domain.Resume {
	return domain.Resume{
		Name:     "Jane Doe",
		Headline: "Backend engineer",
		Email:    "jane@example.com",
		Experiences: []domain.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2020", Tasks: []string{"Built things"}},
		},
		Education: []domain.Education{{Institution: "Uni", Degree: "BSc"}},
	}
}

func hasLine(pl pageLayout, text string) bool {
	for _, l := range pl.Lines {
		if l.Text == text {
			return true
		}
	}
	return false
}

func TestLayoutPage_HeaderOnlyOnFirstPage(t *testing.T) {
	res := sampleResume()
	first := layoutPage(runeWidth, res, domain.Page{Experiences: res.Experiences}, 0, 2)
	second := layoutPage(runeWidth, res, domain.Page{Education: res.Education}, 1, 2)

	if !hasLine(first, "Jane Doe") || hasLine(second, "Jane Doe") {
		t.Error("name should appear on the first page only")
	}
	if !hasLine(first, "EXPERIENCE") || hasLine(first, "EDUCATION") {
		t.Error("first page headings wrong")
	}
	if !hasLine(second, "EDUCATION") || !hasLine(second, "BSc, Uni") {
		t.Error("second page should carry the education entry")
	}
	if !hasLine(first, "• Built things") {
		t.Error("task bullet missing")
	}
	if !hasLine(second, "Page 2 of 2") {
		t.Error("footer missing")
	}
}

func TestLayoutPage_Overflow(t *testing.T) {
	var tasks []string
	for i := 0; i < 120; i++ {
		tasks = append(tasks, "task")
	}
	res := domain.Resume{Experiences: []domain.Experience{{Company: "Acme", Tasks: tasks}}}
	pl := layoutPage(runeWidth, res, domain.Page{Experiences: res.Experiences}, 0, 1)
	if !pl.Overflow {
		t.Error("expected overflow")
	}
	small := layoutPage(runeWidth, sampleResume(), domain.Page{}, 0, 1)
	if small.Overflow {
		t.Error("unexpected overflow")
	}
}

func TestReadResume(t *testing.T) {
	res, err := ReadResume(strings.NewReader(`{"name":"Jane","experiences":[{"company":"Acme","tasks":["a"]}]}`))
	if err != nil {
		t.Fatalf("ReadResume: %v", err)
	}
	if res.Name != "Jane" || len(res.Experiences) != 1 || res.Experiences[0].Tasks[0] != "a" {
		t.Errorf("res = %+v", res)
	}
	if _, err := ReadResume(strings.NewReader(`{"nmae":"typo"}`)); err == nil {
		t.Error("expected unknown field error")
	}
}

func TestLoadResume_Missing(t *testing.T) {
	if _, err := LoadResume(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestRender_PDF(t *testing.T) {
	family, err := LoadFontFamily("")
	if errors.Is(err, ErrNoFont) {
		t.Skip("no system font available")
	}
	if err != nil {
		t.Fatalf("LoadFontFamily: %v", err)
	}
	res := sampleResume()
	var buf bytes.Buffer
	out, err := NewRenderer(family, nil).Render(&buf, res, []domain.Page{
		{Experiences: res.Experiences},
		{Education: res.Education},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Pages != 2 || len(out.Overflowing) != 0 {
		t.Errorf("result = %+v", out)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %.20q", buf.String())
	}
}

func TestRender_NoFamily(t *testing.T) {
	if _, err := NewRenderer(nil, nil).Render(&bytes.Buffer{}, domain.Resume{}, nil); !errors.Is(err, ErrNoFont) {
		t.Fatalf("err = %v", err)
	}
}
