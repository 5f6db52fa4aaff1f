package domain

// Experience is a single employment entry.
type Experience struct {
	Company        string   `json:"company"`
	Position       string   `json:"position"`
	EmploymentType string   `json:"employmentType"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	Tasks          []string `json:"tasks"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Grade       string   `json:"grade,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// ResumeProject is a portfolio entry; named to avoid clashing with the
// canvas Project.
type ResumeProject struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Link         string `json:"link,omitempty"`
}

// Resume is the structured input of the paginated renderer.
type Resume struct {
	Name        string          `json:"name"`
	Headline    string          `json:"headline"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Summary     string          `json:"summary"`
	Experiences []Experience    `json:"experiences"`
	Education   []Education     `json:"education"`
	Projects    []ResumeProject `json:"projects"`
}

// Page is one fixed-capacity unit of paginated resume output.
type Page struct {
	Experiences []Experience    `json:"experiences"`
	Education   []Education     `json:"education"`
	Projects    []ResumeProject `json:"projects"`
}

// Empty reports whether the page carries no entries at all.
func (p Page) Empty() bool {
	return len(p.Experiences) == 0 && len(p.Education) == 0 && len(p.Projects) == 0
}
