// Command lexidex is a small CLI over one lexidex index directory:
// push documents, flush the writer, and run find/document lookups,
// dispatched by subcommand the way this module's teacher corpus
// dispatches nakama's admin/doctor/migrate subcommands from main.go
// (SPEC_FULL.md §4.18).
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/nnev/lexidex/analysis"
	"github.com/nnev/lexidex/config"
	"github.com/nnev/lexidex/docmodel"
	"github.com/nnev/lexidex/index"
	"github.com/nnev/lexidex/lexidexlog"
	"github.com/nnev/lexidex/query"
	"github.com/nnev/lexidex/segment"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "push":
		pushCmd(os.Args[2:])
	case "flush":
		flushCmd(os.Args[2:])
	case "find":
		findCmd(os.Args[2:])
	case "doc":
		docCmd(os.Args[2:])
	case "--version":
		fmt.Println("lexidex dev")
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: lexidex <push|flush|find|doc> [flags]")
}

func sharedFlags(fs *flag.FlagSet) (*string, *string) {
	dir := fs.String("dir", "./lexidex-data", "index directory")
	cfgPath := fs.String("config", "", "optional YAML config file path")
	return dir, cfgPath
}

func loadConfig(dir, cfgPath string) config.Config {
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "lexidex:", err)
			os.Exit(1)
		}
		return cfg
	}
	cfg := config.NewDefault()
	cfg.Dir = dir
	return cfg
}

func openLogger(cfg config.Config) *zap.Logger {
	log, err := lexidexlog.Setup(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexidex: logger setup:", err)
		os.Exit(1)
	}
	return log
}

func defaultPipeline(cfg config.Config) analysis.Pipeline {
	p := analysis.Pipeline{Tokenizer: analysis.DefaultTokenizer{}}
	if len(cfg.Analysis.StopWords) > 0 {
		p.Filters = append(p.Filters, analysis.NewStopWordFilter(cfg.Analysis.StopWords))
	}
	if cfg.Analysis.Stem {
		p.Filters = append(p.Filters, analysis.NewStemFilter())
	}
	return p
}

// pushCmd reads newline-delimited JSON documents from stdin, each a
// flat object of field name -> string value, and pushes one
// docmodel.Document per line.
func pushCmd(args []string) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	dir, cfgPath := sharedFlags(fs)
	tokenized := fs.String("tokenized", "", "comma-separated list of field names to tokenize")
	fs.Parse(args)

	cfg := loadConfig(*dir, *cfgPath)
	log := openLogger(cfg)
	defer log.Sync()

	tokenizedSet := map[string]bool{}
	for _, f := range splitCSV(*tokenized) {
		tokenizedSet[f] = true
	}

	w, err := index.OpenWriter(cfg.Dir, defaultPipeline(cfg), log)
	if err != nil {
		log.Fatal("open writer", zap.Error(err))
	}
	defer w.Close()

	scanner := bufio.NewScanner(os.Stdin)
	count := 0
	for scanner.Scan() {
		var raw map[string]string
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			log.Fatal("parse document", zap.Error(err))
		}
		b := docmodel.NewBuilder()
		for name, value := range raw {
			var flags docmodel.FieldFlags
			if tokenizedSet[name] {
				flags |= docmodel.Tokenized
			}
			b.AddField(name, docmodel.Text(value), flags)
		}
		if err := w.Push(b.Build()); err != nil {
			log.Fatal("push document", zap.Error(err))
		}
		count++
	}
	log.Info("pushed documents", zap.Int("count", count))
}

func flushCmd(args []string) {
	fs := flag.NewFlagSet("flush", flag.ExitOnError)
	dir, cfgPath := sharedFlags(fs)
	fs.Parse(args)

	cfg := loadConfig(*dir, *cfgPath)
	log := openLogger(cfg)
	defer log.Sync()

	w, err := index.OpenWriter(cfg.Dir, defaultPipeline(cfg), log)
	if err != nil {
		log.Fatal("open writer", zap.Error(err))
	}
	defer w.Close()

	if err := w.Flush(); err != nil {
		log.Fatal("flush", zap.Error(err))
	}
}

func findCmd(args []string) {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	dir, cfgPath := sharedFlags(fs)
	field := fs.String("field", "", "field name to query")
	value := fs.String("value", "", "term value to query")
	fs.Parse(args)

	cfg := loadConfig(*dir, *cfgPath)
	r, err := index.OpenReader(cfg.Dir, cfg.CacheSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexidex:", err)
		os.Exit(1)
	}
	defer r.Close()

	top, err := query.Eval(r, query.Term{Field: *field, Value: []byte(*value)})
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexidex:", err)
		os.Exit(1)
	}
	for _, id := range top.IDs() {
		segID, localID := segment.SplitDocID(id)
		fmt.Printf("%d\t(segment=%d local=%d)\n", id, segID, localID)
	}
}

func docCmd(args []string) {
	fs := flag.NewFlagSet("doc", flag.ExitOnError)
	dir, cfgPath := sharedFlags(fs)
	id := fs.Uint64("id", 0, "document id")
	fs.Parse(args)

	cfg := loadConfig(*dir, *cfgPath)
	r, err := index.OpenReader(cfg.Dir, cfg.CacheSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexidex:", err)
		os.Exit(1)
	}
	defer r.Close()

	doc, ok, err := r.Document(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lexidex:", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Println("not found")
		return
	}
	for _, f := range doc.Fields() {
		fmt.Printf("%s: %s\n", f.Name, f.Value.String())
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
