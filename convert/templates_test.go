package convert

import (
	"strings"
	"testing"

	"o2q/config"
)

func TestExpandTemplate(t *testing.T) {
	values := buildTemplateValues(config.PipelinePoints, "styles/default.render.xml")

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"kind only", "{{.Kind}}", "points"},
		{"name and kind", "{{.Name}}_{{.Kind}}", "default.render_points"},
		{"sprig functions", "{{.Kind | title}}", "Points"},
		{"context", "{{.Context}}", string(config.OutputNameTemplateFieldName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(config.OutputNameTemplateFieldName, tt.field, values)
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate_ParseError(t *testing.T) {
	_, err := expandTemplate(config.OutputNameTemplateFieldName, "{{.Name", Values{})
	if err == nil {
		t.Fatal("Expected error for malformed template, got nil")
	}
	if !strings.Contains(err.Error(), string(config.OutputNameTemplateFieldName)) {
		t.Errorf("Error should name the offending field: %v", err)
	}
}

func TestBuildTemplateValues(t *testing.T) {
	v := buildTemplateValues(config.PipelineRoads, "/data/styles/default.render.xml")

	if v.Kind != "roads" {
		t.Errorf("Kind = %q, want %q", v.Kind, "roads")
	}
	if v.Name != "default.render" {
		t.Errorf("Name = %q, want %q", v.Name, "default.render")
	}
	if v.Context != string(config.OutputNameTemplateFieldName) {
		t.Errorf("Context = %q, want %q", v.Context, string(config.OutputNameTemplateFieldName))
	}
}
