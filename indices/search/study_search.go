package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"smartmethods/bizerror"
	"smartmethods/client/es"
	"smartmethods/indices"
	"smartmethods/session"
)

var (
	SearchStudiesFunc = SearchStudies

	MaxSearchResults = 100
)

type StudySearchQuery struct {
	Name   string `form:"name"`
	Status string `form:"status"`
}

// SearchStudies matches process names and descriptions among the live studies of the session user.
func SearchStudies(q StudySearchQuery, s *session.Session) ([]indices.StudyDocument, error) {
	if !s.Authenticated() {
		return nil, bizerror.ErrUnauthenticated
	}

	filters := make([]es.H, 0, 4)
	filters = append(filters, es.H{"term": es.H{"userId": s.Identity.ID.String()}})
	filters = append(filters, es.H{"term": es.H{"trashed": false}})
	if status := strings.TrimSpace(q.Status); status != "" {
		filters = append(filters, es.H{"match": es.H{"status": es.H{"query": status, "operator": "AND"}}})
	}

	boolQuery := es.H{"filter": filters}
	if name := strings.TrimSpace(q.Name); name != "" {
		boolQuery["must"] = es.H{"multi_match": es.H{
			"query":    name,
			"fields":   []string{"processName^2", "description"},
			"operator": "AND",
		}}
	}

	sorts := []interface{}{"_score", es.H{"updateTime": es.H{"order": "desc", "unmapped_type": "date"}}}
	r, err := es.SearchFunc(indices.StudyIndexName, es.H{"size": MaxSearchResults, "query": es.H{"bool": boolQuery}, "sort": sorts}, s)
	if err != nil {
		return nil, err
	}

	docs := make([]indices.StudyDocument, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := indices.StudyDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode study document %s: %w", hit.Id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
