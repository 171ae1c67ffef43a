package resume

// Field edits are closed sets of typed setters, one per editable field.
// An edit only ever sees a copy of the entity it is applied to.

// ContactEdit sets one field of the contact block
type ContactEdit func(*Contact)

// ExperienceEdit sets one scalar field of an Experience
type ExperienceEdit func(*Experience)

// ProjectEdit sets one scalar field of a Project. Technologies have their own operators.
type ProjectEdit func(*Project)

// EducationEdit sets one field of an Education entry
type EducationEdit func(*Education)

// SkillEdit sets one field of a Skill other than its name
type SkillEdit func(*Skill)

// LanguageEdit sets one field of a Language
type LanguageEdit func(*Language)

// CustomSectionEdit sets one field of a CustomSection
type CustomSectionEdit func(*CustomSection)

// CustomItemEdit sets one field of a CustomSectionItem
type CustomItemEdit func(*CustomSectionItem)

func SetName(v string) ContactEdit      { return func(c *Contact) { c.Name = v } }
func SetEmail(v string) ContactEdit     { return func(c *Contact) { c.Email = v } }
func SetPhone(v string) ContactEdit     { return func(c *Contact) { c.Phone = v } }
func SetAddress(v string) ContactEdit   { return func(c *Contact) { c.Address = v } }
func SetLinkedIn(v string) ContactEdit  { return func(c *Contact) { c.LinkedIn = v } }
func SetGitHub(v string) ContactEdit    { return func(c *Contact) { c.GitHub = v } }
func SetPortfolio(v string) ContactEdit { return func(c *Contact) { c.Portfolio = v } }
func SetPhoto(v string) ContactEdit     { return func(c *Contact) { c.Photo = v } }

func SetJobTitle(v string) ExperienceEdit        { return func(e *Experience) { e.JobTitle = v } }
func SetCompany(v string) ExperienceEdit         { return func(e *Experience) { e.Company = v } }
func SetLocation(v string) ExperienceEdit        { return func(e *Experience) { e.Location = v } }
func SetExperienceStart(v string) ExperienceEdit { return func(e *Experience) { e.StartDate = v } }
func SetExperienceEnd(v string) ExperienceEdit   { return func(e *Experience) { e.EndDate = v } }

// SetCurrent toggles IsCurrent. EndDate is left as it is.
func SetCurrent(v bool) ExperienceEdit { return func(e *Experience) { e.IsCurrent = v } }

func SetProjectName(v string) ProjectEdit        { return func(p *Project) { p.Name = v } }
func SetProjectDescription(v string) ProjectEdit { return func(p *Project) { p.Description = v } }
func SetProjectLink(v string) ProjectEdit        { return func(p *Project) { p.Link = v } }
func SetProjectStart(v string) ProjectEdit       { return func(p *Project) { p.StartDate = v } }
func SetProjectEnd(v string) ProjectEdit         { return func(p *Project) { p.EndDate = v } }

func SetInstitution(v string) EducationEdit    { return func(e *Education) { e.Institution = v } }
func SetDegree(v string) EducationEdit         { return func(e *Education) { e.Degree = v } }
func SetFieldOfStudy(v string) EducationEdit   { return func(e *Education) { e.FieldOfStudy = v } }
func SetEducationStart(v string) EducationEdit { return func(e *Education) { e.StartDate = v } }
func SetEducationEnd(v string) EducationEdit   { return func(e *Education) { e.EndDate = v } }
func SetGPA(v string) EducationEdit            { return func(e *Education) { e.GPA = v } }

func SetSkillCategory(v string) SkillEdit { return func(s *Skill) { s.Category = v } }

func SetLanguageName(v string) LanguageEdit { return func(l *Language) { l.Name = v } }
func SetProficiency(v string) LanguageEdit  { return func(l *Language) { l.Proficiency = v } }

func SetSectionTitle(v string) CustomSectionEdit { return func(c *CustomSection) { c.Title = v } }

func SetItemContent(v string) CustomItemEdit    { return func(i *CustomSectionItem) { i.Content = v } }
func SetItemSubContent(v string) CustomItemEdit { return func(i *CustomSectionItem) { i.SubContent = v } }
func SetItemDate(v string) CustomItemEdit       { return func(i *CustomSectionItem) { i.Date = v } }
