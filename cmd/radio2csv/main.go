package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dougsko/radio2csv/pkg/config"
	"github.com/dougsko/radio2csv/pkg/csvio"
	"github.com/dougsko/radio2csv/pkg/icf"
	"github.com/dougsko/radio2csv/pkg/logging"
	"github.com/dougsko/radio2csv/pkg/models"
	"github.com/dougsko/radio2csv/pkg/protocol"
	"github.com/dougsko/radio2csv/pkg/radio"
	"github.com/dougsko/radio2csv/pkg/storage"
)

const (
	Version = "0.3.0"
	Build   = "development"
)

// Exit codes
const (
	exitOK      = 0
	exitUsage   = 1
	exitFailure = 2
	exitTooMany = 3
)

const usage = `  Usage:  radio2csv  [options]  Radio-filein  [ Radio-fileout [ 'comment' ] ]
    To export frequency memories ("Channels") to a CSV file:
	radio2csv  Radio-file  > CSV-file
    To import frequency memories ("Channels") from a CSV file:
	radio2csv  Radio-oldfile  Radio-newfile  < CSV-file
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("radio2csv", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Configuration file path")
	archivePath := flags.String("archive", "", "Archive converted images in this database")
	verbose := flags.Bool("v", false, "Verbose (debug) logging")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	fmt.Fprintf(stderr, "radio2csv version %s (%s)\n", Version, Build)

	switch flags.NArg() {
	case 0:
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
		return exitUsage
	case 1, 2, 3:
	default:
		fmt.Fprintln(stderr, "*** Parameter error;  too many parameters ***")
		return exitTooMany
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(stderr, "*** %v ***\n", err)
			return exitFailure
		}
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *archivePath != "" {
		cfg.Archive.Enabled = true
		cfg.Archive.DatabasePath = *archivePath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "*** Invalid configuration: %v ***\n", err)
		return exitFailure
	}

	if err := logging.InitGlobalLogger(cfg); err != nil {
		fmt.Fprintf(stderr, "*** Failed to initialize logging: %v ***\n", err)
		return exitFailure
	}
	defer logging.CloseGlobalLogger()
	if stderr != io.Writer(os.Stderr) {
		logging.GetGlobalLogger().SetOutput(stderr)
	}

	conv := &converter{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := conv.convert(flags.Args()); err != nil {
		fmt.Fprintf(stderr, "*** %v ***\n", err)
		return exitFailure
	}
	return exitOK
}

type converter struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// convert exports the input image as CSV, or with an output file named
// imports CSV from stdin and saves the updated image
func (c *converter) convert(args []string) error {
	inPath := args[0]
	isICF := icf.IsICF(inPath)

	r, err := c.open(inPath, isICF)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		out := bufio.NewWriter(c.stdout)
		if err := csvio.Dump(out, r); err != nil {
			return fmt.Errorf("failed to export channels: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		return c.archive(r, inPath, protocol.DirectionExport)
	}

	if _, err := csvio.Load(c.stdin, r); err != nil {
		return fmt.Errorf("unable to load file 'stdin': %w", err)
	}

	comment, hasComment := "", len(args) == 3
	if hasComment {
		comment = args[2]
		if err := r.SetComment(comment); err != nil {
			if !errors.Is(err, radio.ErrNoField) {
				return err
			}
			logging.Debug("main", fmt.Sprintf("%s carries no comment", r.Model()))
		}
	}

	outPath := args[1]
	if err := c.save(r, outPath, isICF); err != nil {
		return err
	}
	if hasComment {
		fmt.Fprintf(c.stderr, "--- %s ('%s') updated ---\n", r.Model(), comment)
	} else {
		fmt.Fprintf(c.stderr, "--- %s updated ---\n", r.Model())
	}

	return c.archive(r, outPath, protocol.DirectionImport)
}

// open reads and detects the radio image at path
func (c *converter) open(path string, isICF bool) (radio.Radio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: '%s'", path)
	}
	defer f.Close()

	var img *radio.Image
	if isICF {
		img, err = icf.Read(f)
	} else {
		img, err = icf.ReadBinary(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	r, err := models.Detect(img, !isICF)
	if err != nil {
		return nil, err
	}

	comment, _ := r.Comment()
	if comment = strings.TrimRight(comment, " "); comment == "" {
		fmt.Fprintf(c.stderr, "=== %s found ===\n", r.Model())
	} else {
		fmt.Fprintf(c.stderr, "=== %s ('%s') found ===\n", r.Model(), comment)
	}
	return r, nil
}

// save writes the image in the form it was read
func (c *converter) save(r radio.Radio, path string, isICF bool) error {
	radio.Finalize(r)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to write file: '%s'", path)
	}

	if isICF {
		err = icf.Write(f, r.Image())
	} else {
		err = icf.WriteBinary(f, r.Image())
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to save '%s': %w", path, err)
	}
	return nil
}

// archive records the converted image when archiving is enabled
func (c *converter) archive(r radio.Radio, name, direction string) error {
	if !c.cfg.Archive.Enabled {
		return nil
	}

	store, err := storage.NewArchiveStore(c.cfg.Archive.DatabasePath, c.cfg.Archive.MaxSnapshots)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	comment, _ := r.Comment()
	img := r.Image()
	rows := protocol.NewChannelRows(r)
	id, err := store.StoreSnapshot(protocol.Snapshot{
		Model:      r.Model(),
		Comment:    strings.TrimRight(comment, " "),
		SourceName: name,
		Direction:  direction,
		Header:     img.Header,
		Image:      img.Data,
		CreatedAt:  time.Now(),
	}, rows)
	if err != nil {
		return fmt.Errorf("failed to archive image: %w", err)
	}

	logging.Info("main", "Image archived", map[string]interface{}{
		"id":       id,
		"channels": len(rows),
		"db":       c.cfg.Archive.DatabasePath,
	})
	return nil
}
