package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/glinharesb/tlskey/internal/server"
)

type remoteFlags struct {
	addr    string
	token   string
	caFile  string
	timeout time.Duration
}

// dial returns a client and a context carrying the bearer token.
func (f *remoteFlags) dial(cmd *cobra.Command) (*server.Client, context.Context, func(), error) {
	creds := insecure.NewCredentials()
	if f.caFile != "" {
		tc, err := credentials.NewClientTLSFromFile(f.caFile, "")
		if err != nil {
			return nil, nil, nil, err
		}
		creds = tc
	}
	conn, err := grpc.NewClient(f.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+f.token)
	cleanup := func() {
		cancel()
		conn.Close()
	}
	return server.NewClient(conn), ctx, cleanup, nil
}

func newRemoteCmd() *cobra.Command {
	f := &remoteFlags{}
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Use keys held by a tlskey-server",
	}
	cmd.PersistentFlags().StringVar(&f.addr, "addr", "localhost:50051", "server address")
	cmd.PersistentFlags().StringVar(&f.token, "token", os.Getenv("TLSKEY_AUTH_TOKEN"), "bearer token")
	cmd.PersistentFlags().StringVar(&f.caFile, "ca", "", "CA bundle for transport TLS; empty for plaintext")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 10*time.Second, "call timeout")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, ctx, done, err := f.dial(cmd)
				if err != nil {
					return err
				}
				defer done()
				keys, err := client.ListKeys(ctx, "")
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%v\t%v\t%v\t%v\n", k["key_id"], k["variant"], k["status"], k["subject"])
				}
				return nil
			},
		},
		newRemoteSchemesCmd(f),
		newRemoteSignCmd(f),
	)
	return cmd
}

func newRemoteSchemesCmd(f *remoteFlags) *cobra.Command {
	var version string
	cmd := &cobra.Command{
		Use:   "schemes KEY_ID",
		Short: "List the signature schemes a key can sign with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, done, err := f.dial(cmd)
			if err != nil {
				return err
			}
			defer done()
			names, err := client.SchemesFor(ctx, args[0], version)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "tls-version", "", "only schemes valid in this TLS version (1.0 to 1.3)")
	return cmd
}

func newRemoteSignCmd(f *remoteFlags) *cobra.Command {
	var schemeName, inPath string
	cmd := &cobra.Command{
		Use:   "sign KEY_ID",
		Short: "Sign a message with a server-held key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readInput(cmd, inPath)
			if err != nil {
				return err
			}
			client, ctx, done, err := f.dial(cmd)
			if err != nil {
				return err
			}
			defer done()
			sig, err := client.Sign(ctx, args[0], schemeName, msg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(sig))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemeName, "scheme", "", "TLS signature scheme")
	cmd.Flags().StringVar(&inPath, "in", "-", "message file, - for stdin")
	cmd.MarkFlagRequired("scheme")
	return cmd
}
