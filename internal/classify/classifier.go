// Package classify turns a free-text Spanish query into a query type plus
// the entities mentioned in it. Classification is rule based: ordered
// keyword sets checked by substring containment, first category wins. The
// vocabulary is fixed to the Casanare deployment.
package classify

import (
	"strings"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/timeparse"
)

// Result is the classifier output for one query.
type Result struct {
	QueryType           domain.QueryType  `json:"query_type"`
	TimePeriod          *domain.DateRange `json:"time_period,omitempty"`
	Crop                string            `json:"crop_mentioned,omitempty"`
	Location            string            `json:"location_mentioned,omitempty"`
	GeneralInfoCategory string            `json:"general_info_category,omitempty"`
}

// GeneralInfoRequested reports whether the query asked for reference
// agronomy content in addition to its main intent.
func (r Result) GeneralInfoRequested() bool {
	return r.GeneralInfoCategory != ""
}

// rule pairs a query type with the cue words that select it. Rules are
// evaluated in slice order and the first rule with any cue contained in
// the lowercased query wins, so the slice order IS the priority contract.
type rule struct {
	queryType domain.QueryType
	cues      []string
}

var rules = []rule{
	{domain.QueryCurrentStatus, []string{
		"actual", "ahora", "hoy", "temperatura", "humedad", "sensor",
	}},
	{domain.QueryClimateHistory, []string{
		"histórico", "historia", "último", "pasado", "semana", "mes",
	}},
	{domain.QueryRecommendations, []string{
		"recomendación", "recomendacion", "consejo", "qué sembrar",
		"que sembrar", "sembrar", "cultivo", "temporada",
	}},
	{domain.QueryCropAdvice, []string{
		"arroz", "maíz", "maiz", "yuca", "plátano", "platano",
		"cacao", "cítricos", "citricos",
	}},
}

// cropVocabulary lists crop mentions in extraction order, accented forms
// first so the reported mention keeps the user's spelling family.
var cropVocabulary = []string{
	"arroz", "maíz", "maiz", "yuca", "plátano", "platano",
	"cacao", "cítricos", "citricos",
}

// locationVocabulary lists the Casanare municipalities the store can
// filter by.
var locationVocabulary = []string{
	"aguazul", "yopal", "villanueva", "tauramena", "monterrey", "sabanalarga",
}

// generalInfoKeywords map query substrings to reference-content categories.
// Checked in order, first hit wins.
var generalInfoKeywords = []string{
	"información general", "suelo", "suelos", "riego",
	"fertilización", "fertilizacion", "malezas", "residuos",
	"prácticas", "plagas", "umbrales", "estrés", "estres",
}

// Classify determines the query type and extracts crop, location, temporal
// and general-info entities. It is deterministic and never fails on text
// input; entity extraction runs regardless of which category won.
func Classify(query string) Result {
	lower := strings.ToLower(query)

	res := Result{QueryType: domain.QueryGeneral}
	for _, r := range rules {
		if containsAny(lower, r.cues) {
			res.QueryType = r.queryType
			break
		}
	}

	if period, ok := timeparse.Resolve(query); ok {
		res.TimePeriod = &period
	}
	res.Crop = firstContained(lower, cropVocabulary)
	res.Location = firstContained(lower, locationVocabulary)
	res.GeneralInfoCategory = firstContained(lower, generalInfoKeywords)

	return res
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func firstContained(s string, vocabulary []string) string {
	for _, w := range vocabulary {
		if strings.Contains(s, w) {
			return w
		}
	}
	return ""
}
