package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gobeaver/ingestkit"
	"github.com/gobeaver/ingestkit/sink/bolt"
	"github.com/gobeaver/ingestkit/sink/local"
	"github.com/gobeaver/ingestkit/sink/memory"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           "ingestkit",
		Short:         "validate and store uploaded files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	initRootFlags()
	initCommands()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ingestkit: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ingestkit")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("INGESTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		}
	}
}

func bindConfig(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		fmt.Fprintf(os.Stderr, "bind flag %s: %v\n", key, err)
	}
}

func initRootFlags() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML or YAML)")

	rootCmd.PersistentFlags().Int64("max-size", 10<<20, "maximum accepted payload size in bytes")
	rootCmd.PersistentFlags().StringSlice("accept", nil, "accepted content types (repeatable or comma separated)")
	rootCmd.PersistentFlags().String("digest", "sha256", "digest algorithm: md5|sha1|sha256|sha512|crc32|xxhash")
	rootCmd.PersistentFlags().String("spool-dir", "", "directory for transient replay buffers (default: system temp)")
	rootCmd.PersistentFlags().Int("chunk-size", ingestkit.DefaultChunkSize, "read chunk size in bytes")
	rootCmd.PersistentFlags().String("claim", "", "claimed content type override (default: guessed from extension)")

	bindConfig("max_size", rootCmd.PersistentFlags().Lookup("max-size"))
	bindConfig("accept", rootCmd.PersistentFlags().Lookup("accept"))
	bindConfig("digest", rootCmd.PersistentFlags().Lookup("digest"))
	bindConfig("spool_dir", rootCmd.PersistentFlags().Lookup("spool-dir"))
	bindConfig("chunk_size", rootCmd.PersistentFlags().Lookup("chunk-size"))
	bindConfig("claim", rootCmd.PersistentFlags().Lookup("claim"))
}

func initCommands() {
	checkCmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "validate files without storing them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}

	storeCmd := &cobra.Command{
		Use:   "store <file>...",
		Short: "validate files and persist accepted payloads",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStore,
	}
	storeCmd.Flags().String("store-dir", "ingested", "root directory for accepted payloads")
	storeCmd.Flags().String("quarantine", "", "directory for rejected payloads (default: discard)")
	storeCmd.Flags().String("db", "", "bbolt ledger database path (replaces the directory store)")
	bindConfig("store_dir", storeCmd.Flags().Lookup("store-dir"))
	bindConfig("quarantine", storeCmd.Flags().Lookup("quarantine"))
	bindConfig("db", storeCmd.Flags().Lookup("db"))

	rootCmd.AddCommand(checkCmd, storeCmd)
}

func buildIngestor() *ingestkit.Ingestor {
	return ingestkit.New(
		ingestkit.WithSpoolDir(viper.GetString("spool_dir")),
		ingestkit.WithDigestAlgorithm(ingestkit.DigestAlgorithm(viper.GetString("digest"))),
	)
}

func validationConfig() ingestkit.Config {
	return ingestkit.Config{
		MaxContentLength: viper.GetInt64("max_size"),
		AcceptedTypes:    viper.GetStringSlice("accept"),
	}
}

// openInput turns a CLI argument into upload metadata and a byte source.
// "-" reads stdin with an undeclared length.
func openInput(arg string) (ingestkit.UploadMeta, ingestkit.ByteSource, error) {
	chunkSize := viper.GetInt("chunk_size")
	claim := viper.GetString("claim")

	if arg == "-" {
		if claim == "" {
			claim = ingestkit.MIMETypeOctetStream
		}
		meta := ingestkit.UploadMeta{
			Filename:      "stdin",
			ClaimedType:   claim,
			ContentLength: -1,
		}
		return meta, ingestkit.NewReaderSource(os.Stdin, chunkSize), nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return ingestkit.UploadMeta{}, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return ingestkit.UploadMeta{}, nil, err
	}
	if claim == "" {
		claim = ingestkit.GuessClaimedType(arg)
	}
	meta := ingestkit.UploadMeta{
		Filename:      info.Name(),
		ClaimedType:   claim,
		ContentLength: info.Size(),
	}
	return meta, ingestkit.NewReaderSource(f, chunkSize), nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	return runAll(cmd.Context(), args, memory.New())
}

func runStore(cmd *cobra.Command, args []string) error {
	var sink ingestkit.Sink
	if db := viper.GetString("db"); db != "" {
		ledger, err := bolt.Open(db)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()
		sink = ledger
	} else {
		var opts []local.Option
		if q := viper.GetString("quarantine"); q != "" {
			opts = append(opts, local.WithQuarantine(q))
		}
		store, err := local.New(viper.GetString("store_dir"), opts...)
		if err != nil {
			return err
		}
		sink = store
	}
	return runAll(cmd.Context(), args, sink)
}

// runAll ingests each argument in turn. Files are processed sequentially;
// a rejected verdict is reported but does not stop the run.
func runAll(ctx context.Context, args []string, sink ingestkit.Sink) error {
	ing := buildIngestor()
	cfg := validationConfig()

	rejected := 0
	for _, arg := range args {
		meta, src, err := openInput(arg)
		if err != nil {
			return err
		}
		verdict, err := ing.Ingest(ctx, meta, cfg, src, sink)
		_ = src.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		printReport(arg, meta, verdict)
		if !verdict.OK {
			rejected++
		}
	}
	if rejected > 0 {
		return fmt.Errorf("%d of %d files rejected", rejected, len(args))
	}
	return nil
}

func printReport(arg string, meta ingestkit.UploadMeta, verdict *ingestkit.Verdict) {
	fmt.Printf("%s: %s\n", arg, verdict.Summary())
	fmt.Printf("  claimed:  %s\n", ingestkit.NormalizeContentType(meta.ClaimedType))
	fmt.Printf("  detected: %s\n", verdict.DetectedType)
	fmt.Printf("  size:     %d bytes\n", verdict.Size)
	fmt.Printf("  digest:   %s\n", verdict.Digest)
	for _, e := range verdict.Errors {
		fmt.Printf("  error:    %s\n", e)
	}
}
