package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/winbridge/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winbridge window create [--title T] [--width W --height H] [flags]")
	fmt.Fprintln(w, "  winbridge window list [--all] [--json]")
	fmt.Fprintln(w, "  winbridge window resize <id> <width> <height>")
	fmt.Fprintln(w, "  winbridge window close <id>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winbridge window <command> --help' for command-specific options.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "create":
		return runWindowCreate(args[1:])
	case "list":
		return runWindowList(args[1:])
	case "resize":
		return runWindowResize(args[1:])
	case "close":
		return runWindowClose(args[1:])
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowCreate(args []string) int {
	fs := flag.NewFlagSet("window create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "Window title (default: config window.title)")
	width := fs.Float64("width", 0, "Surface width in logical units")
	height := fs.Float64("height", 0, "Surface height in logical units")
	decorations := fs.Bool("decorations", true, "Draw window manager decorations")
	resizable := fs.Bool("resizable", true, "Allow user resizing")
	transparent := fs.Bool("transparent", false, "Request a transparent surface")
	maximized := fs.Bool("maximized", false, "Start maximized")
	visible := fs.Bool("visible", true, "Map the window on creation")
	onTop := fs.Bool("on-top", false, "Keep the window above others")
	asJSON := fs.Bool("json", false, "Print the created window as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window create takes no positional arguments")
		return 2
	}
	if (*width > 0) != (*height > 0) || *width < 0 || *height < 0 {
		fmt.Fprintln(os.Stderr, "--width and --height must be positive and given together")
		return 2
	}

	// Only explicitly set flags override the daemon's defaults.
	payload := ipc.CreateWindowPayload{Title: *title, Width: *width, Height: *height}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "decorations":
			payload.Decorations = decorations
		case "resizable":
			payload.Resizable = resizable
		case "transparent":
			payload.Transparent = transparent
		case "maximized":
			payload.Maximized = maximized
		case "visible":
			payload.Visible = visible
		case "on-top":
			payload.AlwaysOnTop = onTop
		}
	})

	info, err := newClient().CreateWindow(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(info)
	}
	fmt.Printf("created window %d (%dx%d at %d,%d, scale %.2f)\n",
		info.ID, info.Width, info.Height, info.X, info.Y, info.ScaleFactor)
	return 0
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("window list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	all := fs.Bool("all", false, "Include closed windows")
	asJSON := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	windows, err := newClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	shown := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		if w.Closed && !*all {
			continue
		}
		shown = append(shown, w)
	}

	if *asJSON {
		return printJSON(shown)
	}
	if len(shown) == 0 {
		fmt.Println("no windows")
		return 0
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSIZE\tPOSITION\tSCALE\tSTATE")
	for _, w := range shown {
		state := "open"
		if w.Closed {
			state = "closed"
		}
		fmt.Fprintf(tw, "%d\t%dx%d\t%d,%d\t%.2f\t%s\n", w.ID, w.Width, w.Height, w.X, w.Y, w.ScaleFactor, state)
	}
	tw.Flush()
	return 0
}

func runWindowResize(args []string) int {
	fs := flag.NewFlagSet("window resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge window resize <id> <width> <height>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Request a new surface size in physical pixels. The platform may")
		fmt.Fprintln(os.Stderr, "apply a different size; watch for a Resized event.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}

	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	width, err1 := strconv.ParseUint(fs.Arg(1), 10, 32)
	height, err2 := strconv.ParseUint(fs.Arg(2), 10, 32)
	if err1 != nil || err2 != nil || width == 0 || height == 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive integers")
		return 2
	}

	if err := newClient().RequestSurfaceSize(id, uint32(width), uint32(height)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowClose(args []string) int {
	fs := flag.NewFlagSet("window close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winbridge window close <id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := newClient().CloseWindow(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseWindowID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 0, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return id, nil
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
