package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	mdbundle "github.com/alnah/go-mdbundle"
	"github.com/alnah/go-mdbundle/internal/assets"
)

// doctorSample is the markdown rendered by the self-test. Covers a
// heading, emphasis, a code fence, and a rule so every layout path runs.
const doctorSample = "# Self Test\n\nSome *styled* text with `code`.\n\n```go\nfunc main() {}\n```\n\n---\n"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Presets  presetInfo `json:"presets"`
	Render   renderInfo `json:"render"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// presetInfo holds preset loading results.
type presetInfo struct {
	Available []string `json:"available"`
	Loadable  bool     `json:"loadable"`
}

// renderInfo holds the render self-test results.
type renderInfo struct {
	OK    bool   `json:"ok"`
	Pages int    `json:"pages,omitempty"`
	Bytes int    `json:"bytes,omitempty"`
	Error string `json:"error,omitempty"`
}

// envInfo holds platform detection results.
type envInfo struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	CI   bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEnvironment(result, env)
	checkSystem(result)
	checkPresets(result)
	if result.System.TempWritable {
		checkRender(result, env)
	} else {
		result.Render.Error = "skipped: temp directory not writable"
	}

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEnvironment records platform facts and CI detection.
func checkEnvironment(result *doctorResult, env *Environment) {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies the temp directory is writable; archive inputs
// and the render self-test both need it.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mdbundle-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// checkPresets verifies every embedded preset parses and validates.
func checkPresets(result *doctorResult) {
	result.Presets.Available = assets.Names()
	result.Presets.Loadable = true

	loader, err := mdbundle.NewPresetLoader("")
	if err != nil {
		result.Presets.Loadable = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Preset loader failed: %v", err))
		return
	}

	for _, name := range result.Presets.Available {
		if _, err := loader.LoadPreset(name); err != nil {
			result.Presets.Loadable = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("Preset %q failed to load: %v", name, err))
		}
	}
}

// checkRender converts a small in-memory document end to end and checks
// the output is a structurally plausible PDF.
func checkRender(result *doctorResult, env *Environment) {
	dir, err := os.MkdirTemp("", "mdbundle-doctor-")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render self-test setup failed: %v", err))
		return
	}
	defer os.RemoveAll(dir)

	samplePath := filepath.Join(dir, "selftest.md")
	if err := os.WriteFile(samplePath, []byte(doctorSample), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render self-test setup failed: %v", err))
		return
	}

	svc := mdbundle.New(mdbundle.WithClock(func() time.Time {
		return env.Now().UTC()
	}))

	ctx := context.Background()
	job, err := svc.ProcessInput(ctx, samplePath)
	if err != nil {
		result.Render.Error = err.Error()
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render self-test resolution failed: %v", err))
		return
	}
	defer job.Cleanup()

	converted, err := svc.Convert(ctx, job)
	if err != nil {
		result.Render.Error = err.Error()
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render self-test conversion failed: %v", err))
		return
	}

	pdfBytes, err := os.ReadFile(converted.OutputPath) // #nosec G304 -- path we produced
	if err != nil {
		result.Render.Error = err.Error()
		result.Errors = append(result.Errors,
			fmt.Sprintf("Render self-test output unreadable: %v", err))
		return
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF-")) {
		result.Render.Error = "output is not a PDF"
		result.Errors = append(result.Errors, "Render self-test produced a non-PDF file")
		return
	}

	result.Render.OK = true
	result.Render.Pages = converted.PageCount
	result.Render.Bytes = len(pdfBytes)
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdbundle doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Presets")
	if r.Presets.Loadable {
		fmt.Fprintf(w, "  [OK] Loadable: %v\n", r.Presets.Available)
	} else {
		fmt.Fprintln(w, "  [ERROR] One or more presets failed to load")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Render self-test")
	if r.Render.OK {
		fmt.Fprintf(w, "  [OK] Produced %d page(s), %d bytes\n", r.Render.Pages, r.Render.Bytes)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Render.Error)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
