package omdb

import (
	"strconv"

	"github.com/cinepedia/cinepedia/internal/domain"
)

func mapDetail(d *detailResponse) domain.Record {
	return domain.Record{
		ID:        d.ImdbID,
		Title:     d.Title,
		Year:      d.Year,
		Type:      d.Type,
		Poster:    d.Poster,
		Rating:    d.ImdbRating,
		Votes:     d.ImdbVotes,
		Genre:     d.Genre,
		Plot:      d.Plot,
		Director:  d.Director,
		Actors:    d.Actors,
		BoxOffice: d.BoxOffice,
	}
}

func mapSearch(s *searchResponse) domain.SearchResult {
	matches := make([]domain.MatchStub, 0, len(s.Search))
	for _, item := range s.Search {
		if item.ImdbID == "" {
			continue
		}
		matches = append(matches, domain.MatchStub{
			ID:     item.ImdbID,
			Title:  item.Title,
			Year:   item.Year,
			Type:   item.Type,
			Poster: item.Poster,
		})
	}

	total, err := strconv.Atoi(s.TotalResults)
	if err != nil {
		total = len(matches)
	}

	return domain.SearchResult{
		Matches: matches,
		Total:   total,
		Found:   true,
	}
}
