package models

type AnalysisPostRequest struct {
	// Image is a base64 encoded photo, optionally as a data URL.
	Image string `json:"image"`
}

type AnalysisPostResponse struct {
	SkinType string   `json:"skinType"`
	Issues   []string `json:"issues"`
	Remedies []string `json:"remedies"`
	Products []string `json:"products"`
}
