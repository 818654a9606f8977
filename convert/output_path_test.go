package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"o2q/config"
	"o2q/state"
)

func setupTestEnvForOutputPath(t *testing.T, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Style.OutputNameTemplate = template

	return &state.LocalEnv{
		Log: logger,
		Cfg: cfg,
	}
}

func TestBuildOutputPath_Defaults(t *testing.T) {
	env := setupTestEnvForOutputPath(t, "")

	tests := []struct {
		name string
		kind config.Pipeline
		want string
	}{
		{"points", config.PipelinePoints, "points.xml"},
		{"roads", config.PipelineRoads, "roads.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildOutputPath("styles/default.render.xml", "/output", tt.kind, env)
			expected := filepath.Join("/output", tt.want)

			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	env := setupTestEnvForOutputPath(t, "{{.Name}}-{{.Kind}}")

	result := buildOutputPath("styles/default.render.xml", "/output", config.PipelinePoints, env)
	expected := filepath.Join("/output", "default.render-points.xml")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_TemplateWithSubdirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, "{{.Kind}}/{{.Name}}")

	result := buildOutputPath("styles/default.render.xml", "/output", config.PipelineRoads, env)
	expected := filepath.Join("/output", "roads", "default.render.xml")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_TemplateFunctions(t *testing.T) {
	env := setupTestEnvForOutputPath(t, `{{.Kind | upper}}`)

	result := buildOutputPath("styles/default.render.xml", "/output", config.PipelinePoints, env)
	expected := filepath.Join("/output", "POINTS.xml")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_BrokenTemplateFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"parse error", "{{.Name"},
		{"unknown field", "{{.Bogus}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.template)

			result := buildOutputPath("styles/default.render.xml", "/output", config.PipelinePoints, env)
			expected := filepath.Join("/output", "points.xml")

			if result != expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, expected)
			}
		})
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"single segment", "points", []string{"points"}},
		{"nested", filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{"trailing separator", "points" + string(filepath.Separator), []string{"points"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndCleanPath(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndCleanPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndCleanPath(%q)[%d] = %q, want %q", tt.path, i, got[i], tt.want[i])
				}
			}
		})
	}
}
