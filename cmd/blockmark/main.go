package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/blockmark/blockmark/internal/blockmap"
	"github.com/blockmark/blockmark/internal/config"
	"github.com/blockmark/blockmark/internal/mapcsv"
	"github.com/blockmark/blockmark/internal/observability"
)

const version = "0.1.0"

// Exit codes: 1 usage, 2 configuration error, 3 I/O error, 4 malformed
// block map document.
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "write":
		os.Exit(runWrite(os.Args[2:]))
	case "read":
		os.Exit(runRead(os.Args[2:]))
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: blockmark <command> [options] <file>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  write    fingerprint a file as a block map document")
	fmt.Fprintln(os.Stderr, "  read     relocate the blocks of a block map inside a file")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Run 'blockmark <command> -h' for command options.")
}

func runWrite(args []string) int {
	cfg := config.Default()
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	fs.IntVar(&cfg.BlockCount, "blocks", cfg.BlockCount, "number of blocks to split the file into")
	fs.StringVar(&cfg.HashAlgorithm, "hash", cfg.HashAlgorithm, "digest algorithm for block hashes")
	fs.IntVar(&cfg.ExcerptSize, "excerpt-size", cfg.ExcerptSize, "excerpt bytes per block (negative: derive from file size)")
	output := fs.String("output", "", "write the block map to a file instead of stdout (.gz compresses)")
	fs.StringVar(&cfg.MetricsAddress, "metrics-addr", "", "expose Prometheus metrics on this address during the run")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: blockmark write [options] <file>")
		fs.PrintDefaults()
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	alg, _ := blockmap.ResolveAlgorithm(cfg.HashAlgorithm)

	logger := observability.NewLogger("blockmark", version, os.Stderr).WithLevel(cfg.LogLevel)
	metrics := observability.NewMetrics()
	if cfg.MetricsAddress != "" {
		metrics.Serve(cfg.MetricsAddress)
	}

	ctx := context.Background()
	shutdown, err := observability.InitTracing(ctx, "blockmark")
	if err != nil {
		logger.Error(err, "tracing init failed")
	} else {
		defer shutdown(ctx)
	}
	_, span := otel.Tracer("blockmark").Start(ctx, "write")
	defer span.End()

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		logger.Error(err, "open target file")
		return 3
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		logger.Error(err, "stat target file")
		return 3
	}
	logger = logger.WithFile(path, info.Size())

	var out io.Writer = os.Stdout
	if *output != "" {
		wc, err := mapcsv.OpenOutput(*output)
		if err != nil {
			logger.Error(err, "open output")
			return 3
		}
		defer wc.Close()
		out = wc
	}

	excerptSize := cfg.ExcerptSize
	if excerptSize < 0 {
		excerptSize = blockmap.DefaultExcerptSize(info.Size())
	}
	logger.FingerprintStarted(cfg.BlockCount, alg.Name, excerptSize)

	start := time.Now()
	last := start
	var bytesHashed int64
	w := mapcsv.NewMapWriter(out, alg.Name)
	err = blockmap.Fingerprint(f, info.Size(), cfg.BlockCount, cfg.ExcerptSize, alg, func(d blockmap.Descriptor) error {
		metrics.BlocksFingerprinted.Inc()
		metrics.BytesHashed.Add(float64(d.Size))
		metrics.BlockDuration.Observe(time.Since(last).Seconds())
		last = time.Now()
		bytesHashed += d.Size
		return w.WriteDescriptor(d)
	})
	if err != nil {
		logger.Error(err, "fingerprint failed")
		return 3
	}
	logger.FingerprintCompleted(cfg.BlockCount, bytesHashed, time.Since(start))
	return 0
}

func runRead(args []string) int {
	cfg := config.Default()
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.BoolVar(&cfg.CheckTransposition, "transpose", false, "search every block from the start of the file to catch reordered blocks")
	input := fs.String("input", "", "read the block map from a file instead of stdin (.gz decompresses)")
	output := fs.String("output", "", "write locations to a file instead of stdout (.gz compresses)")
	fs.StringVar(&cfg.MetricsAddress, "metrics-addr", "", "expose Prometheus metrics on this address during the run")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: blockmark read [options] <file>")
		fs.PrintDefaults()
		return 1
	}

	logger := observability.NewLogger("blockmark", version, os.Stderr).WithLevel(cfg.LogLevel)
	metrics := observability.NewMetrics()
	if cfg.MetricsAddress != "" {
		metrics.Serve(cfg.MetricsAddress)
	}

	ctx := context.Background()
	shutdown, err := observability.InitTracing(ctx, "blockmark")
	if err != nil {
		logger.Error(err, "tracing init failed")
	} else {
		defer shutdown(ctx)
	}
	_, span := otel.Tracer("blockmark").Start(ctx, "read")
	defer span.End()

	var in io.Reader = os.Stdin
	if *input != "" {
		rc, err := mapcsv.OpenInput(*input)
		if err != nil {
			logger.Error(err, "open input")
			return 3
		}
		defer rc.Close()
		in = rc
	}

	mr, err := mapcsv.NewMapReader(in)
	if err != nil {
		logger.Error(err, "malformed block map")
		return 4
	}
	alg, err := blockmap.ResolveAlgorithm(mr.Algorithm())
	if err != nil {
		logger.Error(err, "block map names an unusable algorithm")
		return 2
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		logger.Error(err, "open candidate file")
		return 3
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		logger.Error(err, "stat candidate file")
		return 3
	}
	logger = logger.WithFile(path, info.Size())

	var out io.Writer = os.Stdout
	if *output != "" {
		wc, err := mapcsv.OpenOutput(*output)
		if err != nil {
			logger.Error(err, "open output")
			return 3
		}
		defer wc.Close()
		out = wc
	}

	searcher := blockmap.NewSearcher(f, info.Size(), alg, cfg.CheckTransposition)
	rw := mapcsv.NewResultWriter(out)

	start := time.Now()
	last := start
	located, missing := 0, 0
	for {
		d, err := mr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error(err, "malformed block map")
			return 4
		}
		res, err := searcher.Next(d)
		if err != nil {
			logger.Error(err, "search failed")
			return 3
		}
		metrics.BlockDuration.Observe(time.Since(last).Seconds())
		last = time.Now()
		metrics.CandidatesProbed.Add(float64(res.Probed))
		if res.Found {
			located++
			metrics.BlocksLocated.Inc()
			logger.BlockLocated(res.Number, res.Location, res.Probed)
		} else {
			missing++
			metrics.BlocksMissing.Inc()
			logger.BlockMissing(res.Number, res.Probed)
		}
		if err := rw.WriteResult(res); err != nil {
			logger.Error(err, "write result row")
			return 3
		}
	}
	logger.RelocateCompleted(located, missing, time.Since(start))
	return 0
}
