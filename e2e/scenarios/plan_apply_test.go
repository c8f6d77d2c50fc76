//go:build e2e

// These scenarios run the real endstate binary against the winget
// driver, so they assume a Windows host with winget on PATH.
package scenarios

import (
	"testing"

	"github.com/artexis10/endstate/e2e/framework"
)

func TestVersion_ShowsVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("the endstate binary is built", func(env *framework.Environment) {
			// Binary is automatically built by NewEnvironment
		}).
		When("I run endstate version", func(r *framework.Runner) *framework.Result {
			return r.Version()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the output shows version information", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "endstate")
		})
}

func TestPlan_WithEmptyManifest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)
	var manifestPath string

	scenario.
		Given("a manifest with no apps", func(env *framework.Environment) {
			manifestPath = env.WriteManifest(`{
				"version": 1,
				"name": "empty"
			}`)
		}).
		When("I run endstate plan", func(r *framework.Runner) *framework.Result {
			return r.Plan(manifestPath)
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the envelope reports success", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, `"success": true`)
		})
}

func TestPlan_WithIncludedManifest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)
	var manifestPath string

	scenario.
		Given("a manifest that includes another", func(env *framework.Environment) {
			env.WriteInclude("base", `{
				"version": 1,
				"apps": [ { "id": "ripgrep", "refs": { "windows": "BurntSushi.ripgrep.MSVC" } } ]
			}`)
			manifestPath = env.WriteManifest(`{
				"version": 1,
				"name": "with-include",
				"includes": ["base.jsonc"]
			}`)
		}).
		When("I run endstate plan", func(r *framework.Runner) *framework.Result {
			return r.Plan(manifestPath)
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the plan lists the included app", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "ripgrep")
		})
}

func TestApply_DryRun_WithEmptyManifest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)
	var manifestPath string

	scenario.
		Given("a manifest with no apps", func(env *framework.Environment) {
			manifestPath = env.WriteManifest(`{
				"version": 1,
				"name": "empty"
			}`)
		}).
		When("I run endstate apply --dry-run", func(r *framework.Runner) *framework.Result {
			return r.ApplyDryRun(manifestPath)
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the envelope reports success", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, `"success": true`)
		})
}

func TestPlan_MissingManifestFails(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("no manifest has been written", func(env *framework.Environment) {}).
		When("I run endstate plan against a nonexistent path", func(r *framework.Runner) *framework.Result {
			return r.Plan("does-not-exist.jsonc")
		}).
		Then("the command fails", func(t *testing.T, r *framework.Result) {
			framework.AssertFailed(t, r)
		}).
		And("the exit code is the input-error code", func(t *testing.T, r *framework.Result) {
			framework.AssertExitCode(t, r, 1)
		})
}

func TestDoctor_ReportsStateRootWritable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a fresh environment", func(env *framework.Environment) {}).
		When("I run endstate doctor", func(r *framework.Runner) *framework.Result {
			return r.Doctor()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the report names the state-root check", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "state-root")
		})
}

func TestCapabilities_ListsRegisteredDriver(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a fresh environment", func(env *framework.Environment) {}).
		When("I run endstate capabilities", func(r *framework.Runner) *framework.Result {
			return r.Capabilities()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("winget is listed as a driver", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "winget")
		})
}
