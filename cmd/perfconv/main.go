// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfconv converts legacy performance-test result documents to the
// current schema.
//
// Usage:
//
//	perfconv [flags] source target
//
// Perfconv reads every .json file directly in the source directory,
// normalizes it, and writes it under the same name to target. target
// is either an existing directory or a Cloud Storage location of the
// form gs://bucket/prefix. Either directory may be given as "-" to use
// ./jcv_test/legacy and ./jcv_test/converted respectively.
//
// The normalization rules are, in the order they are applied:
//
//	buildnum     fill in a missing revision and version from the file name
//	suitelabel   rename the TestComplete suite label
//	opstructure  check the operation layout
//	averages     recompute AverageX records from the X operations
//	oplabels     rename stale operation labels
//
// By default only averages and oplabels run. The -rules flag selects
// a different set, and -config loads the label mappings from a YAML
// file (see package normalize).
//
// A file that cannot be read, normalized, or written is reported on
// standard error and skipped; perfconv then exits with status 1 after
// converting the remaining files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/sync/errgroup"

	"github.com/gatherperfdata/perfconv/normalize"
	"github.com/gatherperfdata/perfconv/resultdoc"
	"github.com/gatherperfdata/perfconv/resultstat"
	"github.com/gatherperfdata/perfconv/storage/db"
	_ "github.com/gatherperfdata/perfconv/storage/db/sqlite3"
	"github.com/gatherperfdata/perfconv/storage/fs"
	"github.com/gatherperfdata/perfconv/storage/fs/gcs"
	"github.com/gatherperfdata/perfconv/storage/fs/local"
)

const (
	defaultSource = "./jcv_test/legacy"
	defaultTarget = "./jcv_test/converted"
)

var errUsage = errors.New("usage")

func main() {
	log.SetPrefix("perfconv: ")
	log.SetFlags(0)

	err := perfconv(os.Stdout, os.Stderr, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		log.Print(err)
		os.Exit(1)
	}
}

func perfconv(stdout, stderr io.Writer, args []string) error {
	flags := flag.NewFlagSet("perfconv", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: perfconv [flags] source target\n")
		flags.PrintDefaults()
	}
	var (
		flagRules   = flags.String("rules", "", "comma-separated `rules` to apply (default from -config)")
		flagConfig  = flags.String("config", "", "load label mappings from YAML `file`")
		flagExt     = flags.String("ext", resultdoc.DefaultExt, "convert files ending in `suffix`")
		flagJobs    = flags.Int("j", 1, "convert up to `n` files at once")
		flagDriver  = flags.String("driver", "sqlite3", "database `driver` for -dsn: sqlite3 or mysql")
		flagDSN     = flags.String("dsn", "", "also index converted documents in database `dsn`")
		flagStats   = flags.Bool("stats", false, "print a summary of the converted measurements")
		flagVerbose = flags.Bool("v", false, "print verbose log messages")
	)
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if flags.NArg() != 2 || *flagJobs < 1 {
		flags.Usage()
		return errUsage
	}
	source, target := flags.Arg(0), flags.Arg(1)
	if source == "-" {
		source = defaultSource
	}
	if target == "-" {
		target = defaultTarget
	}

	cfg := normalize.DefaultConfig()
	if *flagConfig != "" {
		var err error
		if cfg, err = normalize.LoadConfig(*flagConfig); err != nil {
			return err
		}
	}
	rules, err := cfg.RuleSet()
	if err != nil {
		return err
	}
	if *flagRules != "" {
		if rules, err = normalize.ParseRuleSet(*flagRules); err != nil {
			return err
		}
	}

	ctx := context.Background()
	if fi, err := os.Stat(source); err != nil || !fi.IsDir() {
		return fmt.Errorf("folder '%s' does not exist", source)
	}
	out, err := openTarget(ctx, target)
	if err != nil {
		return err
	}

	c := &converter{
		out:    out,
		rules:  rules,
		stderr: stderr,
	}
	c.engine = &normalize.Engine{Config: cfg, Warn: c.warn}
	if *flagVerbose {
		c.logf = func(format string, args ...interface{}) {
			c.mu.Lock()
			defer c.mu.Unlock()
			fmt.Fprintf(stderr, format+"\n", args...)
		}
	}
	if *flagDSN != "" {
		d, err := db.OpenSQL(*flagDriver, *flagDSN)
		if err != nil {
			return fmt.Errorf("open database: %v", err)
		}
		defer d.Close()
		c.index = d
	}
	if *flagStats {
		c.stats = new(resultstat.Collector)
	}

	c.verbosef("converting files in %s, output to %s, rules %s", source, target, rules)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*flagJobs)
	files := resultdoc.Files{Dir: source, Ext: *flagExt}
	n := 0
	for files.Scan() {
		name := files.Name()
		doc, err := files.Document()
		n++
		if err != nil {
			// Read and syntax errors already name the file.
			c.fail(err)
			continue
		}
		g.Go(func() error {
			c.convert(gctx, name, doc)
			return nil
		})
	}
	g.Wait()
	if err := files.Err(); err != nil {
		return err
	}

	if c.stats != nil {
		if err := c.stats.Format(stdout); err != nil {
			return err
		}
	}
	c.verbosef("converted %d of %d files", n-c.failed, n)
	if c.failed > 0 {
		return fmt.Errorf("%d of %d files failed", c.failed, n)
	}
	return nil
}

// openTarget returns the FS for a local directory or gs:// URL.
func openTarget(ctx context.Context, target string) (fs.FS, error) {
	if strings.HasPrefix(target, "gs://") {
		bucket, prefix, err := gcs.ParseURL(target)
		if err != nil {
			return nil, err
		}
		return gcs.NewFS(ctx, bucket, prefix)
	}
	out, err := local.NewFS(target)
	if err != nil {
		return nil, fmt.Errorf("folder '%s' does not exist", target)
	}
	return out, nil
}

// A converter normalizes and stores documents. Its methods may be
// called concurrently.
type converter struct {
	engine *normalize.Engine
	rules  normalize.RuleSet
	out    fs.FS
	index  *db.DB               // or nil
	stats  *resultstat.Collector // or nil
	logf   func(format string, args ...interface{})

	mu     sync.Mutex // protects stderr and failed
	stderr io.Writer
	failed int
}

func (c *converter) convert(ctx context.Context, name string, doc *resultdoc.Document) {
	if err := c.engine.Normalize(doc, name, c.rules); err != nil {
		c.fail(err)
		return
	}
	if err := c.write(ctx, name, doc); err != nil {
		c.fail(fmt.Errorf("%s: writing output: %w", name, err))
		return
	}
	if c.index != nil {
		if _, err := c.index.InsertDocument(ctx, name, doc); err != nil {
			c.fail(fmt.Errorf("%s: indexing: %w", name, err))
			return
		}
	}
	if c.stats != nil {
		c.stats.Add(doc)
	}
	c.verbosef("%s", name)
}

func (c *converter) write(ctx context.Context, name string, doc *resultdoc.Document) error {
	w, err := c.out.NewWriter(ctx, filepath.Base(name), map[string]string{
		"source": name,
		"rules":  c.rules.String(),
	})
	if err != nil {
		return err
	}
	if err := resultdoc.NewWriter(w).Write(doc); err != nil {
		return w.CloseWithError(err)
	}
	return w.Close()
}

func (c *converter) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed++
	fmt.Fprintln(c.stderr, err)
}

func (c *converter) warn(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.stderr, "warning: %v\n", err)
}

func (c *converter) verbosef(format string, args ...interface{}) {
	if c.logf != nil {
		c.logf(format, args...)
	}
}
