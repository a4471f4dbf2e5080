package charterserver

import (
	"html/template"

	"github.com/rogpeppe/charter/asset"
)

var indexTempl = newTemplate("index.html")

type indexParams struct {
	Chart     string
	Horizon   int
	CanExport bool
}

func newTemplate(name string) *template.Template {
	return template.Must(template.ParseFS(asset.Data(), name))
}
