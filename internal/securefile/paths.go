package securefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// EnvVar selects a per-environment subfolder under the app's config dir.
const EnvVar = "QW_ENV"

// EnvFolder maps QW_ENV to its subfolder; production uses none.
func EnvFolder() (string, error) {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvVar)))
	switch raw {
	case "", "prod", "production":
		return "", nil
	case "local":
		return "local", nil
	case "dev", "develop", "development":
		return "develop", nil
	default:
		return "", errors.Newf("invalid %s %q (allowed: local, develop, empty)", EnvVar, raw)
	}
}

// ConfigPathCandidates lists where app's filename may live, most preferred
// first: the snap real home, $HOME/.config, then os.UserConfigDir.
func ConfigPathCandidates(app, filename string) ([]string, error) {
	if app == "" || filename == "" {
		return nil, errors.New("securefile: app and filename are required")
	}
	env, err := EnvFolder()
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, home := range []string{os.Getenv("SNAP_REAL_HOME"), os.Getenv("HOME")} {
		if home != "" {
			roots = append(roots, filepath.Join(home, ".config"))
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		roots = append(roots, dir)
	} else if len(roots) == 0 {
		return nil, errors.Wrap(err, "user config dir")
	}

	out := make([]string, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, root := range roots {
		p := filepath.Join(root, app, env, filename)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// ResolvePath returns the first candidate that exists, else the first candidate.
func ResolvePath(app, filename string) (string, error) {
	cands, err := ConfigPathCandidates(app, filename)
	if err != nil {
		return "", err
	}
	for _, p := range cands {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return cands[0], nil
}
