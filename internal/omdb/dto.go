package omdb

// OMDb answers every request with HTTP 200 and signals failure in the body,
// so each payload embeds the envelope.

type envelope struct {
	Response string `json:"Response"` // "True" or "False"
	Error    string `json:"Error,omitempty"`
}

func (e envelope) ok() bool {
	return e.Response == "True"
}

type detailResponse struct {
	envelope
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Type       string `json:"Type"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	BoxOffice  string `json:"BoxOffice"`
}

type searchResponse struct {
	envelope
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
}

type searchItem struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}
