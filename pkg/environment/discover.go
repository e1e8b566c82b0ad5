package environment

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ajxudir/pyupgradecheck/pkg/cmdexec"
	"github.com/ajxudir/pyupgradecheck/pkg/verbose"
)

// DefaultInterpreter is run to discover site-packages when none is configured.
const DefaultInterpreter = "python3"

// discoverTimeout bounds the interpreter start-up.
const discoverTimeout = 10 * time.Second

// discoverScript prints the interpreter's import search directories that hold
// installed distributions, in import order.
const discoverScript = `import json, site, sys
paths = []
try:
    paths.extend(site.getsitepackages())
except Exception:
    pass
try:
    if site.ENABLE_USER_SITE:
        paths.append(site.getusersitepackages())
except Exception:
    pass
for p in sys.path:
    if p.endswith(("site-packages", "dist-packages")) and p not in paths:
        paths.append(p)
print(json.dumps(paths))`

// DiscoverSitePackages asks a Python interpreter for its site-packages
// directories and returns the ones that exist.
//
// Parameters:
//   - ctx: Context for cancellation
//   - python: Interpreter to run; DefaultInterpreter when empty
//
// Returns:
//   - []string: Existing directories in import order
//   - error: When the interpreter cannot be run or prints unexpected output
func DiscoverSitePackages(ctx context.Context, python string) ([]string, error) {
	if python == "" {
		python = DefaultInterpreter
	}

	out, err := cmdexec.Execute(ctx, discoverTimeout, python, "-c", discoverScript)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to run %s to locate site-packages", python)
	}

	var paths []string
	if err := json.Unmarshal(out, &paths); err != nil {
		return nil, errors.Wrapf(err, "unexpected site-packages output from %s", python)
	}

	var existing []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			existing = append(existing, p)
		}
	}
	verbose.Printf("Interpreter %s site-packages: %v\n", python, existing)
	return existing, nil
}
