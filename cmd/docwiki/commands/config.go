package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docwiki/internal/config"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/sphinx"
)

// ConfigCmd prints the conf.py a build would generate.
type ConfigCmd struct {
	Wiki bool `help:"Render with the Markdown builder enabled"`
}

func (c *ConfigCmd) Run(g *Global, root *CLI) error {
	return runCommand(root, "config", func(_ context.Context, _ metrics.Recorder) error {
		workDir, err := root.workDir()
		if err != nil {
			return err
		}
		settings, err := root.loadSettings(workDir)
		if err != nil {
			return err
		}
		opts, err := sphinx.NewConfOptions(settings, config.Project{}, workDir)
		if err != nil {
			return err
		}
		if c.Wiki {
			opts.UseWiki = true
		}
		content, err := sphinx.RenderConf(opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(g.stdout(), content)
		return err
	})
}
