package domain

import "strconv"

// Posting is a record from the secondary source. It only backs the plain
// admin listing view.
type Posting struct {
	ID                    int64  `json:"id"`
	PositionName          string `json:"positionName"`
	WorkLocation          string `json:"workLocation"`
	Salary                string `json:"salary"`
	ExperienceRequirement string `json:"experienceRequirement"`
	EducationRequirement  string `json:"educationRequirement"`
	PositionTags          string `json:"positionTags"`
	CompanyName           string `json:"companyName"`
	CompanyIndustry       string `json:"companyIndustry"`
	CompanySize           string `json:"companySize"`
	FinancingStatus       string `json:"financingStatus"`
}

var PostingFields = []string{
	"id", "positionName", "workLocation", "salary", "experienceRequirement",
	"educationRequirement", "positionTags", "companyName", "companyIndustry",
	"companySize", "financingStatus",
}

var PostingNumericFields = map[string]bool{"id": true}

func (p *Posting) Field(name string) (string, bool) {
	switch name {
	case "id":
		return strconv.FormatInt(p.ID, 10), true
	case "positionName":
		return p.PositionName, true
	case "workLocation":
		return p.WorkLocation, true
	case "salary":
		return p.Salary, true
	case "experienceRequirement":
		return p.ExperienceRequirement, true
	case "educationRequirement":
		return p.EducationRequirement, true
	case "positionTags":
		return p.PositionTags, true
	case "companyName":
		return p.CompanyName, true
	case "companyIndustry":
		return p.CompanyIndustry, true
	case "companySize":
		return p.CompanySize, true
	case "financingStatus":
		return p.FinancingStatus, true
	}
	return "", false
}

func (p *Posting) SetField(name, value string) bool {
	switch name {
	case "id":
		p.ID = ParseInt(value)
	case "positionName":
		p.PositionName = value
	case "workLocation":
		p.WorkLocation = value
	case "salary":
		p.Salary = value
	case "experienceRequirement":
		p.ExperienceRequirement = value
	case "educationRequirement":
		p.EducationRequirement = value
	case "positionTags":
		p.PositionTags = value
	case "companyName":
		p.CompanyName = value
	case "companyIndustry":
		p.CompanyIndustry = value
	case "companySize":
		p.CompanySize = value
	case "financingStatus":
		p.FinancingStatus = value
	default:
		return false
	}
	return true
}

func (p *Posting) HasField(name string) bool {
	_, ok := p.Field(name)
	return ok
}
