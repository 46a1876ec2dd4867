package convert

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"fxmig/common"
	"fxmig/convert/plaincss"
	"fxmig/convert/tailwind"
	"fxmig/engine"
)

// newRegistry returns converters for requested target together with list of
// template extensions to migrate. Configured extensions can only narrow the
// list supported by target.
func newRegistry(target common.Target, extensions []string, log *zap.Logger) (*engine.Registry, []string, error) {
	var reg *engine.Registry
	switch target {
	case common.TargetTailwind:
		reg = tailwind.New(log)
	case common.TargetPlainCss:
		reg = plaincss.New(log)
	default:
		return nil, nil, fmt.Errorf("unsupported conversion target: %s", target)
	}

	desc := reg.Descriptor()
	if len(extensions) == 0 {
		return reg, desc.Extensions, nil
	}
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if !desc.SupportsExtension(ext) {
			log.Warn("Extension is not supported by target, ignoring", zap.String("ext", ext), zap.Stringer("target", target))
			continue
		}
		if ext = strings.ToLower(ext); !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return nil, nil, fmt.Errorf("none of the requested extensions %v is supported by %s", extensions, target)
	}
	return reg, exts, nil
}

func supportedExtension(exts []string, path string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
