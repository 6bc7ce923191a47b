package entity

type JobRequirement struct {
	ID              string   `json:"id"`
	JobID           string   `json:"job_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience"`
	Department      string   `json:"department"`
	Location        string   `json:"location,omitempty"`
	JobType         string   `json:"jobType,omitempty"`
}

const (
	ExperienceAny    = "Any"
	ExperienceEntry  = "Entry"
	ExperienceMid    = "Mid"
	ExperienceSenior = "Senior"
	ExperienceLead   = "Lead"
)

var ExperienceLevels = []string{ExperienceAny, ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead}

const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
	JobTypeRemote     = "Remote"
)

var JobTypes = []string{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote}

// JobTemplate bulk-fills the job setup form.
type JobTemplate struct {
	Title           string
	ExperienceLevel string
	Description     string
	Skills          []string
}

var JobTemplates = []JobTemplate{
	{
		Title:           "Software Engineer",
		ExperienceLevel: ExperienceMid,
		Skills:          []string{"JavaScript", "React", "Node.js", "Python", "SQL"},
		Description:     "We are looking for a skilled Software Engineer to join our development team. You will be responsible for designing, developing, and maintaining web applications using modern technologies.",
	},
	{
		Title:           "Product Manager",
		ExperienceLevel: ExperienceSenior,
		Skills:          []string{"Product Strategy", "Agile", "Analytics", "User Research", "Roadmapping"},
		Description:     "Seeking an experienced Product Manager to drive product strategy and execution. You will work closely with engineering, design, and business teams to deliver exceptional products.",
	},
	{
		Title:           "Data Scientist",
		ExperienceLevel: ExperienceMid,
		Skills:          []string{"Python", "Machine Learning", "SQL", "Statistics", "TensorFlow"},
		Description:     "Join our data team as a Data Scientist to extract insights from complex datasets. You will build predictive models and drive data-driven decision making across the organization.",
	},
	{
		Title:           "UX Designer",
		ExperienceLevel: ExperienceMid,
		Skills:          []string{"Figma", "User Research", "Prototyping", "Design Systems", "Usability Testing"},
		Description:     "We need a creative UX Designer to craft intuitive user experiences. You will conduct user research, create wireframes, and collaborate with product teams to design user-centered solutions.",
	},
}

var Departments = []string{
	"Human Resources",
	"Information Technology",
	"Finance",
	"Marketing",
	"Operations",
	"Sales",
	"Product",
	"Design",
	"Legal",
	"Other",
}
