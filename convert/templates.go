package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"fxmig/common"
	"fxmig/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	// Name is source file name without extension
	Name string
	Ext  string
	// Dir is source directory relative to input root, "." for files directly
	// in the root, always with forward slashes
	Dir        string
	SourceFile string
	Target     string
	RunID      string
}

func buildValues(name config.TemplateFieldName, rel string, target common.Target, runID string) Values {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	return Values{
		Context:    string(name),
		Name:       strings.TrimSuffix(base, ext),
		Ext:        ext,
		Dir:        filepath.ToSlash(filepath.Dir(rel)),
		SourceFile: filepath.ToSlash(rel),
		Target:     target.String(),
		RunID:      runID,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
