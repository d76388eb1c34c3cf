package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	goVersion "github.com/hashicorp/go-version"
)

const (
	unknownVersion  = "<unknown>"
	cliVersionTitle = "eldev"
)

// Get the value of this variables at build time.
// See magefile for more details.
var (
	gitTag       string
	gitCommit    string
	versionLabel string
)

// normalize converts a git tag to the dotted version numbers.
// A tag that is not a version is returned as is.
func normalize(tag string) string {
	normalizedVersion, err := goVersion.NewVersion(tag)
	if err != nil {
		return tag
	}

	versionStrNumbers := make([]string, 0, len(normalizedVersion.Segments()))
	for _, num := range normalizedVersion.Segments() {
		versionStrNumbers = append(versionStrNumbers, strconv.Itoa(num))
	}
	version := strings.Join(versionStrNumbers, ".")
	if prerelease := normalizedVersion.Prerelease(); prerelease != "" {
		version = fmt.Sprintf("%s-%s", version, prerelease)
	}
	return version
}

// GetVersion return string with eldev version info.
func GetVersion(showShort bool, needCommit bool) string {
	version := unknownVersion
	if gitTag != "" {
		version = normalize(gitTag)
		if versionLabel != "" {
			version = fmt.Sprintf("%s/%s", version, versionLabel)
		}
	}

	if needCommit {
		return fmt.Sprintf("%s.%s", version, gitCommit)
	}
	if showShort {
		return version
	}

	return fmt.Sprintf(
		"%s version %s, %s/%s. commit: %s",
		cliVersionTitle, version, runtime.GOOS, runtime.GOARCH, gitCommit,
	)
}
