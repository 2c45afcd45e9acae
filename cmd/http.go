package cmd

import (
	"context"
	"net/http"
	"strings"

	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/netonframework/docsite/pkg/build"
	"github.com/netonframework/docsite/pkg/handler"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/pkg/theme"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewHTTPCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "http <source>",
		Short: "Start http server",
		Long:  "Serves the site config of <source>, an http(s) url or a local file, as json api and optionally renders the pages of a content directory",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the url or path of the site config")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
				keel.WithOTLPGRPCTracer(otelEnabledFlag(v)),
				keel.WithHTTPPProfService(servicePProfEnabledFlag(v)),
			)

			l := svr.Logger()

			r, history, err := newRepo(cmd.Context(), l, v, args[0])
			if err != nil {
				return err
			}

			mux, err := newServeMux(l, v, r)
			if err != nil {
				return err
			}

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !r.Loaded() {
					return errors.New("repo not loaded yet")
				}
				return nil
			})
			// start initial update and handle error
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				return history.Close()
			})

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.repo"), "repo", func(ctx context.Context, l *zap.Logger) error {
					return r.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					mux,
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v, ":8080")
	addBasePathFlag(flags, v)
	addContentFlag(flags, v, "")
	addThemeFlag(flags, v)
	addMinifyFlag(flags, v)
	addRepoFlags(flags, v)
	addGracefulPeriodFlag(flags, v)
	addOtelEnabledFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)
	addServicePProfEnabledFlag(flags, v)
	addGzipLevelFlag(flags, v)

	return cmd
}

// newServeMux mounts the json api below the base path and the rendered pages on everything else
func newServeMux(l *zap.Logger, v *viper.Viper, r *repo.Repo) (*http.ServeMux, error) {
	basePath := "/" + strings.Trim(basePathFlag(v), "/")

	mux := http.NewServeMux()
	mux.Handle(basePath+"/", handler.NewHTTP(l.Named("inst.handler"), r, handler.WithPath(basePath)))

	if dir := contentFlag(v); dir != "" {
		t, err := theme.Lookup(themeFlag(v))
		if err != nil {
			return nil, err
		}
		l.Info("serving pages", zap.String("content", dir), zap.String("theme", t.Name))
		mux.Handle("/", handler.NewPages(l.Named("inst.pages"), r,
			afero.NewBasePathFs(afero.NewOsFs(), dir),
			t,
			handler.PagesWithBuildOptions(build.WithMinify(minifyFlag(v))),
		))
	}
	return mux, nil
}
