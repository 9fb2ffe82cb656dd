// Package catalog holds the static profession/position catalog and the rules
// for deriving ids from user-entered custom names.
package catalog

type Profession struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Positions []Position `json:"positions" yaml:"positions"`
}

type Position struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

var professions = []Profession{
	{
		ID:    "tech",
		Title: "Teknoloji",
		Positions: []Position{
			{ID: "software-engineer", Title: "Yazılım Mühendisi"},
			{ID: "frontend-developer", Title: "Frontend Geliştirici"},
			{ID: "backend-developer", Title: "Backend Geliştirici"},
			{ID: "mobile-developer", Title: "Mobil Uygulama Geliştirici"},
			{ID: "devops-engineer", Title: "DevOps Mühendisi"},
			{ID: "data-scientist", Title: "Veri Bilimci"},
			{ID: "product-manager", Title: "Ürün Yöneticisi"},
			{ID: "qa-engineer", Title: "Test Mühendisi"},
		},
	},
	{
		ID:    "finance",
		Title: "Finans",
		Positions: []Position{
			{ID: "financial-analyst", Title: "Finansal Analist"},
			{ID: "investment-banker", Title: "Yatırım Bankacısı"},
			{ID: "accountant", Title: "Muhasebeci"},
			{ID: "financial-advisor", Title: "Finansal Danışman"},
			{ID: "risk-manager", Title: "Risk Yöneticisi"},
			{ID: "portfolio-manager", Title: "Portföy Yöneticisi"},
		},
	},
	{
		ID:    "healthcare",
		Title: "Sağlık",
		Positions: []Position{
			{ID: "doctor", Title: "Doktor"},
			{ID: "nurse", Title: "Hemşire"},
			{ID: "pharmacist", Title: "Eczacı"},
			{ID: "physical-therapist", Title: "Fizik Terapist"},
			{ID: "medical-researcher", Title: "Tıbbi Araştırmacı"},
			{ID: "healthcare-administrator", Title: "Sağlık Yöneticisi"},
		},
	},
	{
		ID:    "marketing",
		Title: "Pazarlama",
		Positions: []Position{
			{ID: "marketing-manager", Title: "Pazarlama Müdürü"},
			{ID: "digital-marketer", Title: "Dijital Pazarlamacı"},
			{ID: "content-creator", Title: "İçerik Üreticisi"},
			{ID: "seo-specialist", Title: "SEO Uzmanı"},
			{ID: "brand-manager", Title: "Marka Yöneticisi"},
			{ID: "social-media-manager", Title: "Sosyal Medya Yöneticisi"},
		},
	},
	{
		ID:    "education",
		Title: "Eğitim",
		Positions: []Position{
			{ID: "teacher", Title: "Öğretmen"},
			{ID: "professor", Title: "Profesör"},
			{ID: "education-administrator", Title: "Eğitim Yöneticisi"},
			{ID: "curriculum-developer", Title: "Müfredat Geliştirici"},
			{ID: "educational-consultant", Title: "Eğitim Danışmanı"},
			{ID: "special-education-teacher", Title: "Özel Eğitim Öğretmeni"},
		},
	},
	{
		ID:    "legal",
		Title: "Hukuk",
		Positions: []Position{
			{ID: "lawyer", Title: "Avukat"},
			{ID: "judge", Title: "Hâkim"},
			{ID: "legal-consultant", Title: "Hukuk Danışmanı"},
			{ID: "patent-attorney", Title: "Patent Avukatı"},
			{ID: "corporate-counsel", Title: "Şirket Avukatı"},
			{ID: "legal-researcher", Title: "Hukuk Araştırmacısı"},
		},
	},
}

// List returns the catalog in its fixed order. Every call returns a fresh copy,
// so callers cannot change what later calls observe.
func List() []Profession {
	out := make([]Profession, len(professions))
	for i, p := range professions {
		out[i] = p.clone()
	}
	return out
}

// FindProfession looks a profession up by id.
func FindProfession(id string) (Profession, bool) {
	for _, p := range professions {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Profession{}, false
}

// FindPosition looks a position of the profession up by id.
func (p Profession) FindPosition(id string) (Position, bool) {
	for _, pos := range p.Positions {
		if pos.ID == id {
			return pos, true
		}
	}
	return Position{}, false
}

// PositionNames returns ids and titles of all positions, used for duplicate checks.
func (p Profession) PositionNames() []string {
	names := make([]string, 0, len(p.Positions)*2)
	for _, pos := range p.Positions {
		names = append(names, pos.ID, pos.Title)
	}
	return names
}

// ProfessionNames returns ids and titles of all professions, used for duplicate checks.
func ProfessionNames() []string {
	names := make([]string, 0, len(professions)*2)
	for _, p := range professions {
		names = append(names, p.ID, p.Title)
	}
	return names
}

// TitleFor resolves display titles for a profession/position id pair. Custom
// ids resolve to their label; unknown cataloged ids resolve to the id itself.
func TitleFor(professionID, positionID string) (string, string) {
	professionTitle := Label(professionID)
	positionTitle := Label(positionID)

	if IsCustom(professionID) {
		return professionTitle, positionTitle
	}

	p, ok := FindProfession(professionID)
	if !ok {
		return professionTitle, positionTitle
	}
	professionTitle = p.Title

	if pos, ok := p.FindPosition(positionID); ok {
		positionTitle = pos.Title
	}

	return professionTitle, positionTitle
}

func (p Profession) clone() Profession {
	positions := make([]Position, len(p.Positions))
	copy(positions, p.Positions)
	p.Positions = positions
	return p
}
