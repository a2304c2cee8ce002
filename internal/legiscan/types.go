package legiscan

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

// DatasetInfo describes the legislative session a dataset belongs to. The
// session fields are passed through from LegiScan unchanged and are null
// when LegiScan leaves them out.
type DatasetInfo struct {
	StateID        jsonvalue.Value `json:"state_id"`
	SessionTitle   jsonvalue.Value `json:"session_title"`
	SessionName    jsonvalue.Value `json:"session_name"`
	YearStart      jsonvalue.Value `json:"year_start"`
	YearEnd        jsonvalue.Value `json:"year_end"`
	DatasetDate    jsonvalue.Value `json:"dataset_date"`
	TotalFiles     int             `json:"total_files"`
	ProcessedFiles int             `json:"processed_files"`
}

// Result is the body of a successful /api/get-laws response. Data is keyed
// by file basename in archive order.
type Result struct {
	Success     bool                                            `json:"success"`
	DatasetInfo DatasetInfo                                     `json:"dataset_info"`
	SampleFiles []string                                        `json:"sample_files"`
	Data        *orderedmap.OrderedMap[string, jsonvalue.Value] `json:"data"`
}

// apiResponse is the part of a getDataset answer ezlaw reads.
type apiResponse struct {
	Status  string `json:"status"`
	Dataset struct {
		StateID      jsonvalue.Value `json:"state_id"`
		SessionTitle jsonvalue.Value `json:"session_title"`
		SessionName  jsonvalue.Value `json:"session_name"`
		YearStart    jsonvalue.Value `json:"year_start"`
		YearEnd      jsonvalue.Value `json:"year_end"`
		DatasetDate  jsonvalue.Value `json:"dataset_date"`
		Zip          string          `json:"zip"`
	} `json:"dataset"`
}
