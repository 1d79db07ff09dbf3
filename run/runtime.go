// Copyright © 2026 The Elm-Fluent Authors under an MIT-style license.

package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// fluentPackage is the Elm runtime package the generated code imports.
const fluentPackage = "elm-fluent/fluent"

// fluentConstraint is the runtime version range the generated code is
// written against.
const fluentConstraint = ">= 1.0.0, < 2.0.0"

// CheckRuntime looks for the project's elm-package.json and checks
// the declared elm-fluent/fluent dependency against the versions this
// compiler generates code for. It returns a warning to show the user,
// or "" when the declaration is compatible or absent. A missing
// elm-package.json is not an error; the user may be generating code
// for a project that lives elsewhere.
func CheckRuntime(projectDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, "elm-package.json"))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("elm-package.json: %v", err)
	}
	declared, ok := pkg.Dependencies[fluentPackage]
	if !ok {
		return "", nil
	}
	low, err := parseElmRange(declared)
	if err != nil {
		return "", fmt.Errorf("elm-package.json: %s: %v", fluentPackage, err)
	}
	c, err := semver.NewConstraint(fluentConstraint)
	if err != nil {
		return "", err
	}
	if !c.Check(low) {
		return fmt.Sprintf("The %s dependency '%s' in elm-package.json is outside the range %s supported by this compiler; the generated code may not compile",
			fluentPackage, declared, fluentConstraint), nil
	}
	return "", nil
}

// parseElmRange parses the lower bound of an elm-package.json version
// range of the form "1.0.0 <= v < 2.0.0".
func parseElmRange(s string) (*semver.Version, error) {
	fields := strings.Fields(s)
	if len(fields) != 5 || fields[1] != "<=" || fields[2] != "v" || fields[3] != "<" {
		return nil, fmt.Errorf("bad version range %q", s)
	}
	return semver.NewVersion(fields[0])
}
