package cmd

import (
	"context"
	"net"

	"github.com/netonframework/docsite/pkg/handler"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func NewSocketCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "socket <source>",
		Short: "Start socket server",
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
			l := zap.L().Named("socket")

			r, history, err := newRepo(cmd.Context(), l, v, args[0])
			if err != nil {
				return err
			}
			defer history.Close()

			// create socket server
			handle := handler.NewSocket(l, r)

			// listen on socket
			ln, err := net.Listen("tcp", addressFlag(v))
			if err != nil {
				return err
			}

			g, gCtx := errgroup.WithContext(cmd.Context())

			// start repo
			up := make(chan bool, 1)
			r.OnLoaded(func() {
				up <- true
			})
			g.Go(func() error {
				return r.Start(gCtx)
			})
			select {
			case <-up:
			case <-gCtx.Done():
				return g.Wait()
			}

			g.Go(func() error {
				<-gCtx.Done()
				return ln.Close()
			})

			l.Info("started listening", zap.String("address", addressFlag(v)))

			g.Go(func() error {
				for {
					// this blocks until connection or error
					conn, err := ln.Accept()
					if errors.Is(err, net.ErrClosed) {
						return nil
					} else if err != nil {
						l.Error("could not accept connection", zap.Error(err))
						continue
					}

					// a goroutine handles conn so that the loop can accept other connections
					go func() {
						l.Debug("accepted connection", zap.String("source", conn.RemoteAddr().String()))
						handle.Serve(conn)
						if err := conn.Close(); err != nil {
							l.Warn("failed to close connection", zap.Error(err))
						}
					}()
				}
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	addAddressFlag(flags, v, ":8081")
	addRepoFlags(flags, v)

	return cmd
}
