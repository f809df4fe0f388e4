package types

type InputRequest struct {
	Input string `json:"input"`
}

type PreviewResponse struct {
	Greeting string `json:"greeting"`
	Admin    bool   `json:"admin"`
}

type SubmitResponse struct {
	OK     bool   `json:"ok"`
	Stored bool   `json:"stored"`
	ID     string `json:"id,omitempty"`
}

type ExportResponse struct {
	OK       bool   `json:"ok"`
	Artifact string `json:"artifact,omitempty"`
	Records  int    `json:"records"`
	Skipped  int    `json:"skipped,omitempty"`
}
