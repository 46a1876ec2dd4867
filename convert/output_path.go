package convert

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"fxmig/config"
	"fxmig/state"
)

// buildOutputPath returns path of migrated file. rel is source path relative
// to the input root (base name for a single file), dst is output root. Without
// name template source layout is mirrored, otherwise expanded template
// (optionally with subdirectories) is used. Source extension is always kept.
func buildOutputPath(rel, dst string, env *state.LocalEnv) string {
	defaultPath := filepath.Join(dst, rel)

	if env.Cfg.Migration.OutputNameTemplate == "" {
		return defaultPath
	}

	expandedName := expandOutputNameTemplate(rel, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return defaultPath
	}
	return assemblePathWithSubdirs(dst, expandedName, filepath.Ext(rel), env)
}

func expandOutputNameTemplate(rel string, env *state.LocalEnv) string {
	values := buildValues(config.OutputNameTemplateFieldName, rel, env.Target, env.RunID.String())
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Migration.OutputNameTemplate, values)
	if err != nil {
		env.Logger().Warn("Unable to prepare output filename", zap.String("file", rel), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(filepath.FromSlash(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName, ext string, env *state.LocalEnv) string {
	pathSegments := splitAndCleanPath(expandedName)
	if len(pathSegments) == 0 {
		return outDir
	}

	name := pathSegments[len(pathSegments)-1]
	if strings.EqualFold(filepath.Ext(name), ext) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	fileName := cleanPathSegment(name, env) + ext

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}
	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

// splitAndCleanPath splits path into segments dropping empty, "." and ".."
// ones, so result always stays under output root.
func splitAndCleanPath(path string) []string {
	segments := make([]string, 0, 8)
	for s := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Migration.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}

// reportName returns name to store file under in debug report.
func reportName(prefix, rel string) string {
	ext := filepath.Ext(rel)
	return prefix + "/" + slug.Make(strings.TrimSuffix(filepath.ToSlash(rel), ext)) + ext
}
