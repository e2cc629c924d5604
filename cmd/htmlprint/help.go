package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlprint [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Export the project's documents (default)")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  variants   Print the variant table as config YAML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'htmlprint help <command>' for details on a specific command.")
}

// printRunUsage prints usage for the run command.
func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: htmlprint [run] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export every target of the project to PDF or PNG.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Targets:")
	fmt.Fprintln(w, "      --raster              Flatten PDF pages to images (-raster suffix)")
	fmt.Fprintln(w, "      --only <names>        Export only these targets (comma-separated)")
	fmt.Fprintln(w, "      --project-dir <dir>   Directory holding src/, assets/ and dist/")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --engine <s>          Engine: rod, chromedp")
	fmt.Fprintln(w, "      --browser-bin <path>  Browser executable (default: discovery)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the browser sandbox (Docker/CI)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Navigation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTMLPRINT_CONFIG, HTMLPRINT_PROJECT_DIR, HTMLPRINT_ENGINE,")
	fmt.Fprintln(w, "  HTMLPRINT_BROWSER_BIN, HTMLPRINT_NO_SANDBOX=1, HTMLPRINT_TIMEOUT,")
	fmt.Fprintln(w, "  HTMLPRINT_RASTER=1 (or RASTER=1)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "run":
		printRunUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: htmlprint doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Report browser discovery, sandbox and environment checks.")
	case "variants":
		fmt.Fprintln(env.Stdout, "Usage: htmlprint variants [-c <config>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the built-in variants, merged with the config's, as YAML.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: htmlprint version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: htmlprint help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
