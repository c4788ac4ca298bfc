package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/appdir"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/config"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/importer"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/lock"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/media"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/search"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/store"
	"go.uber.org/zap"
)

func main() {
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if err := appdir.EnsureDirs(); err != nil {
		fatal(err)
	}
	cfg, err := config.Load(appdir.ConfigPath())
	if err != nil {
		fatal(err)
	}

	lk, err := lock.Acquire(appdir.BaseDir())
	if err != nil {
		fatal(err)
	}
	defer func() { _ = lk.Release() }()

	db, err := store.Open(appdir.DBPath())
	if err != nil {
		fatal(err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Migrate(); err != nil {
		fatal(err)
	}

	arena := media.NewArena()
	im := importer.New(db, arena, nil, nil, cfg.Order(), zap.NewNop())
	ctx := context.Background()

	switch args[0] {
	case "import":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatviewctl import <file>")
			os.Exit(1)
		}
		cmdImport(ctx, im, args[1], *jsonFlag)
	case "show":
		cmdShow(ctx, im, *jsonFlag)
	case "groups":
		cmdGroups(ctx, im, *jsonFlag)
	case "search":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: chatviewctl search <query>")
			os.Exit(1)
		}
		cmdSearch(ctx, im, args[1], *jsonFlag)
	case "clear":
		cmdClear(ctx, im)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatviewctl [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  import <file>    Import a WhatsApp export (.txt or .zip)")
	fmt.Fprintln(os.Stderr, "  show             Show the current chat")
	fmt.Fprintln(os.Stderr, "  groups           Show the chat as display groups")
	fmt.Fprintln(os.Stderr, "  search <query>   Fuzzy-search messages")
	fmt.Fprintln(os.Stderr, "  clear            Remove the current chat and its media")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func cmdImport(ctx context.Context, im *importer.Importer, path string, jsonOut bool) {
	c, err := im.ImportFile(ctx, path)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(c)
		return
	}
	fmt.Printf("imported %q: %d messages, %d participants\n", c.Name, len(c.Messages), len(c.Participants))
	if len(c.Messages) == 0 {
		fmt.Println("warning: no messages recognized in this export")
	}
}

func cmdShow(ctx context.Context, im *importer.Importer, jsonOut bool) {
	c := loadCurrent(ctx, im)
	if jsonOut {
		outputJSON(c)
		return
	}
	fmt.Printf("%s (%d messages", c.Name, len(c.Messages))
	if c.IsGroup {
		fmt.Printf(", group of %d", len(c.Participants))
	}
	fmt.Println(")")
	for _, m := range c.Messages {
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04:05"), m.Sender, m.Content)
	}
}

func cmdGroups(ctx context.Context, im *importer.Importer, jsonOut bool) {
	c := loadCurrent(ctx, im)
	groups := chat.GroupMessages(c.Messages)
	if jsonOut {
		outputJSON(groups)
		return
	}
	for _, g := range groups {
		label := g.Sender
		if g.IsSystem {
			label = "(system)"
		}
		fmt.Printf("%s: %d message(s) at %s\n", label, len(g.Messages), g.Timestamp.Format("15:04:05"))
	}
}

func cmdSearch(ctx context.Context, im *importer.Importer, query string, jsonOut bool) {
	c := loadCurrent(ctx, im)
	ix := search.NewIndex(nil, nil)
	ix.Build([]*chat.Chat{c})
	results := ix.Search(query)
	if jsonOut {
		outputJSON(results)
		return
	}
	for _, r := range results {
		fmt.Printf("%s: %s\n", r.Message.Sender, r.HighlightedContent)
	}
	if len(results) == 0 {
		fmt.Println("no matches")
	}
}

func cmdClear(ctx context.Context, im *importer.Importer) {
	if err := im.Clear(ctx); err != nil {
		fatal(err)
	}
	fmt.Println("chat cleared")
}

func loadCurrent(ctx context.Context, im *importer.Importer) *chat.Chat {
	c, err := im.Load(ctx)
	if err != nil {
		fatal(err)
	}
	if c == nil {
		fmt.Fprintln(os.Stderr, "no chat loaded; run: chatviewctl import <file>")
		os.Exit(1)
	}
	return c
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}
