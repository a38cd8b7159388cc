package domain

import "strconv"

// Listing is one recruitment posting from the primary source.
// Every text field is free-form and may be empty or malformed.
type Listing struct {
	ID                int64  `json:"id"`
	Category          string `json:"category"`
	BigCategory       string `json:"bigCategory"`
	PositionID        int64  `json:"positionId"`
	PositionName      string `json:"positionName"`
	CompanyID         int64  `json:"companyId"`
	CompanyFullName   string `json:"companyFullName"`
	CompanySize       string `json:"companySize"`
	IndustryField     string `json:"industryField"`
	FinanceStage      string `json:"financeStage"`
	PositionType      string `json:"positionType"`
	CreateTime        string `json:"createTime"`
	City              string `json:"city"`
	District          string `json:"district"`
	Salary            string `json:"salary"`
	WorkYear          string `json:"workYear"`
	JobNature         string `json:"jobNature"`
	Education         string `json:"education"`
	PositionDetail    string `json:"positionDetail"`
	PositionAdvantage string `json:"positionAdvantage"`
	CreatedAt         string `json:"createdAt"`
}

// ListingFields lists the logical field names of a Listing in column order.
var ListingFields = []string{
	"id", "category", "bigCategory", "positionId", "positionName",
	"companyId", "companyFullName", "companySize", "industryField", "financeStage",
	"positionType", "createTime", "city", "district", "salary",
	"workYear", "jobNature", "education", "positionDetail", "positionAdvantage",
	"createdAt",
}

// ListingNumericFields are stored as integers by the backends.
var ListingNumericFields = map[string]bool{"id": true, "positionId": true, "companyId": true}

func (l *Listing) Field(name string) (string, bool) {
	switch name {
	case "id":
		return strconv.FormatInt(l.ID, 10), true
	case "category":
		return l.Category, true
	case "bigCategory":
		return l.BigCategory, true
	case "positionId":
		return strconv.FormatInt(l.PositionID, 10), true
	case "positionName":
		return l.PositionName, true
	case "companyId":
		return strconv.FormatInt(l.CompanyID, 10), true
	case "companyFullName":
		return l.CompanyFullName, true
	case "companySize":
		return l.CompanySize, true
	case "industryField":
		return l.IndustryField, true
	case "financeStage":
		return l.FinanceStage, true
	case "positionType":
		return l.PositionType, true
	case "createTime":
		return l.CreateTime, true
	case "city":
		return l.City, true
	case "district":
		return l.District, true
	case "salary":
		return l.Salary, true
	case "workYear":
		return l.WorkYear, true
	case "jobNature":
		return l.JobNature, true
	case "education":
		return l.Education, true
	case "positionDetail":
		return l.PositionDetail, true
	case "positionAdvantage":
		return l.PositionAdvantage, true
	case "createdAt":
		return l.CreatedAt, true
	}
	return "", false
}

// SetField assigns a field from its text form. Integer fields that fail to
// parse are set to zero.
func (l *Listing) SetField(name, value string) bool {
	switch name {
	case "id":
		l.ID = ParseInt(value)
	case "category":
		l.Category = value
	case "bigCategory":
		l.BigCategory = value
	case "positionId":
		l.PositionID = ParseInt(value)
	case "positionName":
		l.PositionName = value
	case "companyId":
		l.CompanyID = ParseInt(value)
	case "companyFullName":
		l.CompanyFullName = value
	case "companySize":
		l.CompanySize = value
	case "industryField":
		l.IndustryField = value
	case "financeStage":
		l.FinanceStage = value
	case "positionType":
		l.PositionType = value
	case "createTime":
		l.CreateTime = value
	case "city":
		l.City = value
	case "district":
		l.District = value
	case "salary":
		l.Salary = value
	case "workYear":
		l.WorkYear = value
	case "jobNature":
		l.JobNature = value
	case "education":
		l.Education = value
	case "positionDetail":
		l.PositionDetail = value
	case "positionAdvantage":
		l.PositionAdvantage = value
	case "createdAt":
		l.CreatedAt = value
	default:
		return false
	}
	return true
}

func (l *Listing) HasField(name string) bool {
	_, ok := l.Field(name)
	return ok
}

// ParseInt parses a decimal integer, returning 0 for blank or malformed input.
func ParseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
