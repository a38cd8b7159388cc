package analysis

import (
	"strings"

	"github.com/project-tktt/job-insight/internal/common/keyword"
	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

const (
	marketSeries    = "市场平均"
	topSeries       = "头部人才"
	topScale        = 1.25
	communication   = 75.0
	salaryReference = 40.0
)

// AbilityRadar scores the sample on six dimensions and adds a top
// performer series scaled from the market average.
func AbilityRadar(sample []*domain.Listing) domain.Radar {
	radar := domain.Radar{
		Indicators: append([]string(nil), domain.RadarDimensions...),
		Series:     []domain.RadarSeries{},
	}
	if len(sample) == 0 {
		return radar
	}

	var pay mean
	var keywords, highEdu, senior int
	for _, l := range sample {
		if s := salary.Parse(l.Salary); s > 0 {
			pay.add(s)
		}
		keywords += len(keyword.ExtractSignificant(l.PositionDetail))
		if strings.Contains(l.Education, "硕士") || strings.Contains(l.Education, "博士") {
			highEdu++
		}
		if strings.Contains(l.WorkYear, "5-10") || strings.Contains(l.WorkYear, "10年") {
			senior++
		}
	}

	n := float64(len(sample))
	salaryProxy := clamp(pay.value()/salaryReference*100, 50, 95)
	engineering := clamp(50+float64(keywords)/n*10, 50, 95)
	education := min(float64(highEdu)/n*500+60, 98)
	experience := min(float64(senior)/n*300+50, 95)
	management := min((salaryProxy+experience)/2, 95)

	avg := [6]float64{salaryProxy, engineering, communication, management, education, experience}
	var top [6]float64
	for i, v := range avg {
		avg[i] = round1(v)
		top[i] = round1(min(v*topScale, 100))
	}

	radar.Series = append(radar.Series,
		domain.RadarSeries{Name: marketSeries, Values: avg},
		domain.RadarSeries{Name: topSeries, Values: top},
	)
	return radar
}
