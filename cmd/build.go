package cmd

import (
	"fmt"
	"time"

	"github.com/netonframework/docsite/pkg/build"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/theme"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewBuildCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the content directory into a static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("build")

			cfg, err := loadConfig(l, v)
			if err != nil {
				return err
			}
			t, err := theme.Lookup(themeFlag(v))
			if err != nil {
				return err
			}

			osFs := afero.NewOsFs()
			contentDir, outDir := contentFlag(v), outFlag(v)
			if cleanFlag(v) {
				l.Info("removing output directory", zap.String("dir", outDir))
				if err := osFs.RemoveAll(outDir); err != nil {
					return errors.Wrapf(err, "failed to remove %q", outDir)
				}
			}
			if err := osFs.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrapf(err, "failed to create %q", outDir)
			}
			source := afero.NewReadOnlyFs(afero.NewBasePathFs(osFs, contentDir))
			target := afero.NewBasePathFs(osFs, outDir)

			opts := []build.Option{
				build.WithTheme(t),
				build.WithMinify(minifyFlag(v)),
				build.WithStrict(strictFlag(v)),
				build.WithConcurrency(concurrencyFlag(v)),
			}
			if cfg.LastUpdated && gitFlag(v) {
				lastUpdated, err := build.GitLastUpdated(l, contentDir, build.ModTime(source))
				if err != nil {
					l.Warn("falling back to file modification times", zap.Error(err))
				} else {
					opts = append(opts, build.WithLastUpdated(lastUpdated))
				}
			}

			builder, err := build.New(l, cfg, source, target, opts...)
			if err != nil {
				return err
			}
			report, err := builder.Build(cmd.Context())
			if report != nil {
				for _, link := range report.BrokenLinks {
					l.Warn("broken link", zap.String("path", link.Path), zap.String("text", link.Text), zap.String("link", link.Link))
				}
			}
			if err != nil {
				return err
			}
			l.Info("build done",
				zap.Int("pages", report.Pages),
				zap.Int("assets", report.Assets),
				zap.Int("broken_links", len(report.BrokenLinks)),
				zap.Duration("duration", report.Duration),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages and %d assets into %s in %s\n",
				report.Pages, report.Assets, outDir, report.Duration.Round(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	addConfigFlag(flags, v)
	addContentFlag(flags, v, "docs")
	addOutFlag(flags, v)
	addThemeFlag(flags, v)
	addMinifyFlag(flags, v)
	addStrictFlag(flags, v)
	addCleanFlag(flags, v)
	addConcurrencyFlag(flags, v)
	addGitFlag(flags, v)

	return cmd
}

// loadConfig reads the config file, the built-in Neton config when none is given
func loadConfig(l *zap.Logger, v *viper.Viper) (*site.SiteConfig, error) {
	name := configFlag(v)
	if name == "" {
		l.Debug("using built-in config")
		return site.Default(), nil
	}
	l.Debug("loading config", zap.String("file", name))
	return site.Load(afero.NewOsFs(), name)
}
