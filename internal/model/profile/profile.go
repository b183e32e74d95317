package profile

// Profile is the read-only candidate record the widget answers questions about.
// It is loaded once at startup and passed by pointer; nothing mutates it afterwards.
type Profile struct {
	Name            string          `json:"name" yaml:"name"`
	Title           string          `json:"title" yaml:"title"`
	Subtitle        string          `json:"subtitle" yaml:"subtitle"`
	Location        string          `json:"location" yaml:"location"`
	Status          string          `json:"status" yaml:"status"`
	Positioning     string          `json:"positioning" yaml:"positioning"`
	Companies       []string        `json:"companies" yaml:"companies"`
	Summary         string          `json:"summary" yaml:"summary"`
	FeaturedProject FeaturedProject `json:"featuredProject" yaml:"featured_project"`
	Experience      []Experience    `json:"experience" yaml:"experience"`
	Skills          Skills          `json:"skills" yaml:"skills"`
	Failures        []Failure       `json:"failures" yaml:"failures"`
	Suggestions     []string        `json:"suggestions" yaml:"suggestions"`
	Answers         Answers         `json:"-" yaml:"answers"`
}

// FeaturedProject is the project the answer service is told to lead with.
type FeaturedProject struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Role           string   `json:"role" yaml:"role"`
	TechnicalStack []string `json:"technicalStack" yaml:"technical_stack"`
	Highlights     []string `json:"highlights" yaml:"highlights"`
	Why            string   `json:"why" yaml:"why"`
}

// Experience is one position plus the context the answer service may draw on.
type Experience struct {
	Company    string    `json:"company" yaml:"company"`
	Role       string    `json:"role" yaml:"role"`
	Period     string    `json:"period" yaml:"period"`
	Highlights []string  `json:"highlights" yaml:"highlights"`
	Context    AIContext `json:"aiContext" yaml:"ai_context"`
}

// AIContext holds the narrative behind a position.
type AIContext struct {
	Situation      string `json:"situation" yaml:"situation"`
	Approach       string `json:"approach" yaml:"approach"`
	TechnicalWork  string `json:"technicalWork" yaml:"technical_work"`
	LessonsLearned string `json:"lessonsLearned" yaml:"lessons_learned"`
}

// Skills groups skills by confidence. Gaps are disclosed on purpose.
type Skills struct {
	Strong   []string `json:"strong" yaml:"strong"`
	Moderate []string `json:"moderate" yaml:"moderate"`
	Gaps     []string `json:"gaps" yaml:"gaps"`
}

// Failure is a documented failure with its lesson.
type Failure struct {
	Year    int    `json:"year" yaml:"year"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	Details string `json:"details" yaml:"details"`
	Lessons string `json:"lessons" yaml:"lessons"`
}

// Answers are the scripted replies used when the answer service cannot finish.
type Answers struct {
	AIProject       string `yaml:"ai_project"`
	TechnicalDepth  string `yaml:"technical_depth"`
	Failure         string `yaml:"failure"`
	LeadershipReady string `yaml:"leadership_ready"`
	Default         string `yaml:"default"`
}

// withDefaults fills empty answers from the seed so a partial YAML file stays usable.
func (a Answers) withDefaults(seed Answers) Answers {
	if a.AIProject == "" {
		a.AIProject = seed.AIProject
	}
	if a.TechnicalDepth == "" {
		a.TechnicalDepth = seed.TechnicalDepth
	}
	if a.Failure == "" {
		a.Failure = seed.Failure
	}
	if a.LeadershipReady == "" {
		a.LeadershipReady = seed.LeadershipReady
	}
	if a.Default == "" {
		a.Default = seed.Default
	}
	return a
}
