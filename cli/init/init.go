package init

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/eldev/eldev/cli/config"
	"github.com/eldev/eldev/cli/configure"
	"github.com/eldev/eldev/cli/util"
)

const (
	defaultDirPermissions = os.FileMode(0750)
)

// InitCtx contains information for eldev config creation.
type InitCtx struct {
	// ForceMode, if set, eldev config is re-written without a question.
	ForceMode bool
	// reader to use for reading user input.
	reader io.Reader
}

// createDirectories creates directories specified in dirList.
func createDirectories(dirList []string) error {
	for _, dirName := range dirList {
		if dirName == "" || util.IsDir(dirName) {
			continue
		}
		if err := os.MkdirAll(dirName, defaultDirPermissions); err != nil {
			return fmt.Errorf("failed to create %q: %w", dirName, err)
		}
		log.Debugf("'%s' directory is created.", dirName)
	}
	return nil
}

// generateConfig writes the default eldev config to configPath and creates
// the Electron assets directory.
func generateConfig(configPath string) error {
	cfg := config.Config{CliConfig: configure.GetDefaultCliOpts()}
	if err := util.WriteYaml(configPath, cfg); err != nil {
		return err
	}
	return createDirectories([]string{cfg.CliConfig.Build.AssetsDir})
}

// FillCtx initializes init context.
func FillCtx(initCtx *InitCtx) {
	initCtx.reader = os.Stdin
}

// checkExistingConfig checks eldev config for existence and asks for confirmation to
// overwrite. Returns file name if init process can continue, and an empty string otherwise.
func checkExistingConfig(initCtx *InitCtx) (string, error) {
	configName, err := util.GetYamlFileName(configure.ConfigName, false)
	if configName == "" {
		if err != nil {
			return "", err
		}
		return configure.ConfigName, nil
	}

	if !initCtx.ForceMode {
		confirmed, err := util.AskConfirm(initCtx.reader,
			fmt.Sprintf("%s already exists. Overwrite?", configName))
		if err != nil {
			return "", err
		}
		if !confirmed {
			log.Info("Init is cancelled by user.")
			return "", nil
		}
	}
	if err = os.Remove(configName); err != nil {
		return "", err
	}
	return configure.ConfigName, nil
}

// Run creates eldev config in the current directory.
func Run(initCtx *InitCtx) error {
	if initCtx.reader == nil {
		initCtx.reader = os.Stdin
	}

	configName, err := checkExistingConfig(initCtx)
	if configName == "" {
		return err
	}

	if err := generateConfig(configName); err != nil {
		return err
	}

	log.Infof("eldev config is written to '%s'", configName)

	return nil
}
