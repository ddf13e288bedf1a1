package datatable

import (
	"bytes"
	"html/template"

	"dataportal/domain/dataset"
	"dataportal/internal/logging"
)

var logger = logging.Default.With("datatable")

// DissectionDrawingsURL is the document holding the dissection drawings; a
// record's slice is the page to open.
const DissectionDrawingsURL = "https://brainome.ucsd.edu/CEMBA_dissection_drawings.pdf"

// NoSnATACDatasets is shown when a record lists no snATAC datasets.
const NoSnATACDatasets = "None"

var detailTemplate = template.Must(template.New("detail").Parse(
	`<table class="dataset-detail" cellpadding="5" cellspacing="0" border="0" style="padding-left:50px;">` +
		`<tr><td>Description:</td><td>{{.Description}}</td></tr>` +
		`<tr><td>Dissection region(s):</td><td>{{.Regions}}</td></tr>` +
		`<tr><td>snATAC dataset(s):</td><td>{{.SnATACDatasets}}</td></tr>` +
		`<tr><td>View Dissection Drawings:</td><td><a href="{{.DrawingsURL}}" target="_blank" rel="noopener">Page {{.Slice}}</a></td></tr>` +
		`</table>`))

type detailData struct {
	Description    string
	Regions        string
	SnATACDatasets string
	DrawingsURL    string
	Slice          string
}

// SnATACDisplay returns the snATAC dataset list as shown in the detail panel.
func SnATACDisplay(rec dataset.Record) string {
	if rec.SnATACDatasets == "" {
		return NoSnATACDatasets
	}
	return rec.SnATACDatasets
}

// Format builds the detail panel shown beneath an expanded row. It only reads
// the record already held by the view.
func Format(rec dataset.Record) template.HTML {
	data := detailData{
		Description:    rec.Description,
		Regions:        rec.ABARegionsDescriptive,
		SnATACDatasets: SnATACDisplay(rec),
		DrawingsURL:    DissectionDrawingsURL,
		Slice:          rec.Slice.String(),
	}
	if data.Slice != "" {
		data.DrawingsURL += "#page=" + data.Slice
	}

	var buf bytes.Buffer
	if err := detailTemplate.Execute(&buf, data); err != nil {
		logger.Error("detail panel for %s: %v", rec.DatasetName, err)
		return ""
	}
	return template.HTML(buf.String())
}
