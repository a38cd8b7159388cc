package domain

// MatrixCell is the mean salary of one (industry, work year) group.
type MatrixCell struct {
	Industry  string  `json:"industry"`
	WorkYear  string  `json:"workYear"`
	AvgSalary float64 `json:"avgSalary"`
	Count     int     `json:"count"`
}

// ScatterPoint summarises one company-size bucket.
type ScatterPoint struct {
	CompanySize string  `json:"companySize"`
	AvgSalary   float64 `json:"avgSalary"`
	Count       int     `json:"count"`
	Industry    string  `json:"industry"`
}

// NameValue is a generic (label, number) pair used by word clouds and
// distribution charts.
type NameValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type GraphNode struct {
	Name       string `json:"name"`
	Value      int    `json:"value"`
	SymbolSize int    `json:"symbolSize"`
	Category   int    `json:"category"`
}

type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type GraphCategory struct {
	Name string `json:"name"`
}

// Graph is a skill co-occurrence network.
type Graph struct {
	Nodes      []GraphNode     `json:"nodes"`
	Links      []GraphLink     `json:"links"`
	Categories []GraphCategory `json:"categories"`
}

// BoxPlot holds [min, Q1, median, Q3, max] for one industry.
type BoxPlot struct {
	Industry string     `json:"industry"`
	Values   [5]float64 `json:"values"`
}

// TreeNode is a node of the city/district hierarchy.
type TreeNode struct {
	Name     string     `json:"name"`
	Value    int        `json:"value"`
	Children []TreeNode `json:"children,omitempty"`
}

// RadarDimensions are the six radar axes in output order.
var RadarDimensions = []string{"算法能力", "工程能力", "沟通协作", "管理潜力", "学历背景", "行业经验"}

type RadarSeries struct {
	Name   string     `json:"name"`
	Values [6]float64 `json:"value"`
}

type Radar struct {
	Indicators []string      `json:"indicators"`
	Series     []RadarSeries `json:"series"`
}

// HeatPoint places one city on the map. Value is [longitude, latitude, count].
type HeatPoint struct {
	Name  string     `json:"name"`
	Value [3]float64 `json:"value"`
}

type TrendPoint struct {
	Month     string  `json:"month"`
	AvgSalary float64 `json:"avgSalary"`
}
