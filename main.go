package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/mdsite/internal/commands"
	"github.com/gerunddev/mdsite/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		commands.Build(args)
	case "watch":
		commands.Watch(args)
	case "page":
		commands.Page(args)
	case "render":
		commands.Render(args)
	case "title":
		commands.Title(args)
	case "diff":
		commands.Diff(args)
	case "browse", "pages":
		commands.Browse(args)
	case "status":
		commands.Status(args)
	case "init":
		commands.Init(args)
	case "version", "-v", "--version":
		fmt.Printf("mdsite v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`mdsite - Static site generator for a small markdown dialect

Usage:
  mdsite <command> [options]

Commands:
  build       Rebuild the whole site (use --plain for log output)
  watch       Build, then rebuild changed pages until interrupted
  page        Convert one file: page <src> <dest> [--template file]
  render      Print the HTML fragment for a file, or stdin
  title       Print the title of a markdown file
  diff        Show what rebuilding a page would change
  browse      Browse tracked pages
  status      Summarize the last build
  init        Write a default config and starter site
  version     Show version information
  help        Show this help message

Options:
  --config <path>   Use a different config file
  --verbose         Log debug output

Examples:
  mdsite init
  mdsite build
  mdsite watch --verbose
  mdsite page content/index.md public/index.html
  echo '**hi**' | mdsite render
  mdsite diff content/blog/post.md

Configuration:
  Config file: %s
`, config.ConfigPath())
	fmt.Print(usage)
}
