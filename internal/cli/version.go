// Package cli holds the pieces shared by the pl0c commands: version
// information, the levelled logger, terminal detection and diagnostic
// rendering.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/orizon-lang/pl0/internal/parser"
)

// Version information for the pl0c tool
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	CommitSHA = "unknown" // set with -ldflags "-X ..."
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version         string `json:"version"`
	LanguageVersion string `json:"language_version"`
	BuildDate       string `json:"build_date"`
	CommitSHA       string `json:"commit_sha"`
	GoVersion       string `json:"go_version"`
	Platform        string `json:"platform"`
	Arch            string `json:"arch"`
}

// GetVersionInfo returns structured version information
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:         Version,
		LanguageVersion: parser.LanguageVersion,
		BuildDate:       BuildDate,
		CommitSHA:       CommitSHA,
		GoVersion:       runtime.Version(),
		Platform:        runtime.GOOS,
		Arch:            runtime.GOARCH,
	}
}

// PrintVersion writes version information as JSON or plain text.
func PrintVersion(w io.Writer, toolName string, jsonOutput bool) error {
	info := GetVersionInfo()

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         toolName,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal version info: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	fmt.Fprintf(w, "%s v%s\n", toolName, info.Version)
	fmt.Fprintf(w, "PL/0 language: %s\n", info.LanguageVersion)
	fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)
	return err
}
