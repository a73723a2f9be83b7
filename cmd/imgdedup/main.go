package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"imgdedup/internal/config"
	"imgdedup/internal/dupes"
	"imgdedup/internal/fingerprint"
	"imgdedup/internal/fs"
	"imgdedup/internal/notify"
	"imgdedup/internal/scan"
)

func main() {
	env, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	app := &cli.App{
		Name:      "imgdedup",
		Usage:     "find duplicate images in a directory tree and list, move, or delete them",
		ArgsUsage: "DIRECTORY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "action",
				Value: string(dupes.ActionList),
				Usage: "what to do with duplicates: list, move, or delete",
			},
			&cli.StringFlag{
				Name:  "destination",
				Usage: "target root for relocated files (required with --action move)",
			},
			&cli.StringFlag{
				Name:  "hash",
				Value: config.DefaultHash,
				Usage: "fingerprint method: content (byte-exact) or phash (perceptual)",
			},
			&cli.StringFlag{
				Name:  "keep",
				Value: config.DefaultKeep,
				Usage: "which copy to retain: resolution, first, or oldest",
			},
			&cli.BoolFlag{
				Name:  "report-corrupt",
				Usage: "list unreadable or undecodable files at the end of the run",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "disable the fingerprint cache",
			},
			&cli.StringFlag{
				Name:  "cache-file",
				Value: env.CacheFile,
				Usage: "fingerprint cache location",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: env.Workers,
				Usage: "parallel fingerprint workers",
			},
			&cli.IntFlag{
				Name:  "max-pixels",
				Value: env.MaxPixels,
				Usage: "skip images larger than this many pixels",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one DIRECTORY argument, got %d", c.NArg())
	}
	base := filepath.Clean(c.Args().First())

	fsys := fs.NewOSFS()
	if !fsys.IsDir(base) {
		return fmt.Errorf("base directory %s does not exist or is not a directory", base)
	}

	action, err := dupes.ParseAction(c.String("action"))
	if err != nil {
		return err
	}

	destination := c.String("destination")
	if action == dupes.ActionMove {
		if destination == "" {
			return fmt.Errorf("--destination is required with --action move")
		}
		destination = filepath.Clean(destination)
		if err := fsys.MkdirAll(destination, 0o755); err != nil {
			return fmt.Errorf("create destination %s: %w", destination, err)
		}
	} else if destination != "" {
		return fmt.Errorf("--destination only applies to --action move")
	}

	keep, err := dupes.ParseKeepPolicy(c.String("keep"))
	if err != nil {
		return err
	}

	fp, err := fingerprint.New(c.String("hash"), fsys, c.Int("max-pixels"))
	if err != nil {
		return err
	}

	var cache *fingerprint.Cache
	if !c.Bool("no-cache") {
		cache = fingerprint.NewCache(fsys, c.String("cache-file"), fp)
		fp = cache
	}

	n := notify.New(os.Stdout, os.Stderr)

	// never scan the move destination or the cache file itself
	exclude := []string{c.String("cache-file")}
	if destination != "" {
		exclude = append(exclude, destination)
	}

	scanner := &scan.Scanner{
		FS:            fsys,
		Fingerprinter: fp,
		Notify:        n,
		Workers:       c.Int("workers"),
		Exclude:       exclude,
		ProgressW:     os.Stdout,
	}
	files, warnings, err := scanner.Run(base)
	if err != nil {
		return err
	}

	groups := dupes.GroupFiles(files)

	resolver := &dupes.Resolver{
		FS:          fsys,
		Notify:      n,
		Action:      action,
		Destination: destination,
		Selector:    dupes.Selector{FS: fsys, Policy: keep},
	}
	if cache != nil {
		resolver.OnRemoved = cache.Forget
	}
	res := resolver.Resolve(groups)

	if cache != nil {
		if err := cache.Save(); err != nil {
			n.Warn(c.String("cache-file"), err)
		}
	}

	n.Summary(len(files), res.Groups, res.Duplicates, res.Acted, res.Skipped, len(warnings))
	if c.Bool("report-corrupt") {
		paths := make([]string, len(warnings))
		for i, w := range warnings {
			paths[i] = w.Path
		}
		n.CorruptFiles(paths)
	}

	// per-file skips are warnings, not failures
	return nil
}
