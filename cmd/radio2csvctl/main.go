package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dougsko/radio2csv/pkg/client"
	"github.com/dougsko/radio2csv/pkg/config"
)

var (
	configPath = flag.String("config", "", "Configuration file path")
	serverURL  = flag.String("server", "", "Daemon URL (default from config, http://localhost:8090)")
	timeout    = flag.Duration("timeout", 0, "Request timeout")
	limit      = flag.Int("limit", 20, "Snapshots to list")
	offset     = flag.Int("offset", 0, "Snapshots to skip when listing")
	model      = flag.String("model", "", "List only snapshots of this model")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		showHelp()
		return
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}
	if *timeout > 0 {
		cfg.Client.Timeout = *timeout
	}

	c := client.NewClient(cfg.Client.ServerURL, cfg.Client.Timeout)
	if err := runCommand(c, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(c *client.Client, args []string, out io.Writer) error {
	switch cmd := args[0]; cmd {
	case "status":
		status, err := c.Status()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Version:   %s\n", status.Version)
		fmt.Fprintf(out, "Uptime:    %s\n", status.Uptime)
		fmt.Fprintf(out, "Models:    %d\n", status.Models)
		if a := status.Archive; a != nil {
			fmt.Fprintf(out, "Snapshots: %d (%d exports, %d imports)\n", a.TotalSnapshots, a.TotalExports, a.TotalImports)
			fmt.Fprintf(out, "Channels:  %d\n", a.TotalChannels)
		}

	case "models":
		models, err := c.Models()
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Fprintf(out, "%-16s %5d channels  %s\n", m.Name, m.Channels, m.Format)
		}

	case "upload":
		if len(args) != 2 {
			return fmt.Errorf("usage: upload FILE")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}
		snap, err := c.Upload(filepath.Base(args[1]), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored snapshot %d: %s, %d channels\n", snap.ID, snap.Model, snap.Channels)

	case "list":
		snaps, err := c.ListSnapshots(*limit, *offset, *model)
		if err != nil {
			return err
		}
		for _, s := range snaps {
			fmt.Fprintf(out, "%5d  %s  %-6s  %-16s %4d  %s\n",
				s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Direction, s.Model, s.Channels, s.SourceName)
		}

	case "csv":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		csv, err := c.GetCSV(id)
		if err != nil {
			return err
		}
		fmt.Fprint(out, csv)

	case "image":
		if len(args) != 3 {
			return fmt.Errorf("usage: image ID OUT")
		}
		id, err := idArg(args)
		if err != nil {
			return err
		}
		data, err := c.GetImage(id)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[2], err)
		}
		fmt.Fprintf(out, "Wrote %d bytes to %s\n", len(data), args[2])

	case "delete":
		id, err := idArg(args)
		if err != nil {
			return err
		}
		if err := c.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted snapshot %d\n", id)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func idArg(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: %s ID", args[0])
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot id %q", args[1])
	}
	return id, nil
}

func showHelp() {
	fmt.Println("radio2csvctl - radio2csv archive control tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status            Show daemon status")
	fmt.Println("  models            List supported radios")
	fmt.Println("  upload FILE       Archive an image file (.icf or binary)")
	fmt.Println("  list              List archived snapshots")
	fmt.Println("  csv ID            Print a snapshot as CSV")
	fmt.Println("  image ID OUT      Save a snapshot's image file")
	fmt.Println("  delete ID         Delete a snapshot")
}
