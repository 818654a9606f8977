package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"o2q/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	Kind    string
	Name    string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildTemplateValues prepares expansion values for the output name template:
// the pipeline kind and the base name of the source style document.
func buildTemplateValues(kind config.Pipeline, src string) Values {
	return Values{
		Context: string(config.OutputNameTemplateFieldName),
		Kind:    string(kind),
		Name:    strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
	}
}
