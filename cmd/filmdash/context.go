package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"filmdash/internal/config"
	"filmdash/internal/logging"
	"filmdash/internal/session"
)

type commandContext struct {
	configFlag  *string
	profileFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, profileFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		profileFlag: profileFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) profile() string {
	if c.profileFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.profileFlag)
}

// logger builds the configured logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfigTo(cfg, cmd.ErrOrStderr())
}

// withRuntime opens the session runtime for the duration of fn.
func (c *commandContext) withRuntime(cmd *cobra.Command, fn func(*session.Runtime) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	rt, err := session.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close preferences: %w", closeErr)
		}
	}()
	return fn(rt)
}

// withSession opens the runtime and selects the requested profile, or the
// first one when no --profile is given.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(*session.Runtime) error) error {
	return c.withRuntime(cmd, func(rt *session.Runtime) error {
		id := c.profile()
		if id == "" {
			profiles := rt.Session.Profiles()
			if len(profiles) == 0 {
				return errors.New("no profiles found in the export directory")
			}
			id = profiles[0].ID
		}
		ok, err := rt.Session.SelectProfile(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("load profile %s: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("unknown profile %q (run `filmdash profiles` to list them)", id)
		}
		return fn(rt)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
