package common

import (
	"fmt"
	"strings"
)

// Version is injected at release time with
// -ldflags "-X github.com/Alia5/klutter-gen/internal/codegen/common.Version=x.y.z".
var Version = ""

const devVersion = "0.0.1-dev"

// GetVersion returns Version without its "v" prefix, or a development
// version for local builds. A Version without a dotted core is rejected.
func GetVersion() (string, error) {
	if Version == "" {
		return devVersion, nil
	}
	v := strings.TrimPrefix(Version, "v")
	if core, _, _ := strings.Cut(v, "-"); !strings.Contains(core, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", Version)
	}
	return v, nil
}
