// Command tensorbatchd serves the BatchingService RPC façade over a
// single in-process Batcher bound to a reference backend. Flags and
// environment variables are read by this binary only; the batching
// engine itself takes no configuration of its own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tensorbatch/tensorbatch/internal/backend"
	"github.com/tensorbatch/tensorbatch/internal/batch"
	"github.com/tensorbatch/tensorbatch/internal/rpcserver"
	"github.com/tensorbatch/tensorbatch/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TENSORBATCHD")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "tensorbatchd",
		Short: "Serve the tensor batching RPC façade",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "127.0.0.1:8719", "listen address")
	flags.Int("batch-size", 32, "initial batch capacity")
	flags.String("backend", "identity", "reference backend: identity|affine")
	flags.Float64("affine-scale", 1, "scale term for the affine backend")
	flags.Float64("affine-offset", 0, "offset term for the affine backend")
	flags.String("tls-cert", "", "TLS certificate, PEM text or file path")
	flags.String("tls-key", "", "TLS private key, PEM text or file path")
	flags.Int64("max-concurrent-admissions", 256, "maximum requests concurrently admitted into the batch, 0 for unbounded (must be >= batch-size)")
	flags.Bool("verbose", false, "enable debug logging")

	_ = v.BindPFlags(flags)

	return cmd
}

func run(v *viper.Viper) error {
	logger, err := newLogger(v.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	backendFn, err := selectBackend(v)
	if err != nil {
		return err
	}

	b := batch.New(v.GetInt("batch-size"), batch.WithLogger(logger))
	if rc := b.Bind(batch.InMemoryBind{Backend: backendFn}); rc != batch.OK {
		return fmt.Errorf("bind backend: %s", rc)
	}

	maxAdmissions := v.GetInt64("max-concurrent-admissions")
	if maxAdmissions > 0 && maxAdmissions < int64(v.GetInt("batch-size")) {
		return fmt.Errorf("max-concurrent-admissions (%d) must be >= batch-size (%d)", maxAdmissions, v.GetInt("batch-size"))
	}

	srv := rpcserver.New(b, session.NewRegistry(), rpcserver.FloatVectorCodec{}, logger, maxAdmissions)

	addr := v.GetString("addr")
	cert, key := v.GetString("tls-cert"), v.GetString("tls-key")
	if cert != "" && key != "" {
		return srv.StartSSL(addr, cert, key)
	}
	return srv.StartInsecure(addr)
}

func selectBackend(v *viper.Viper) (backend.Func, error) {
	switch v.GetString("backend") {
	case "identity":
		return backend.Identity(), nil
	case "affine":
		return backend.Affine(v.GetFloat64("affine-scale"), v.GetFloat64("affine-offset")), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", v.GetString("backend"))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
