package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/DomEscobar/PDF-Simple/annotation"
	"github.com/DomEscobar/PDF-Simple/editor"
	"github.com/DomEscobar/PDF-Simple/export"
	"github.com/DomEscobar/PDF-Simple/extensions/dom"
	"github.com/DomEscobar/PDF-Simple/scripting"
	"github.com/DomEscobar/PDF-Simple/session"
)

type options struct {
	sessionPath string
	outPath     string
	password    string
	protect     bool
	scriptPath  string
	timeout     time.Duration
	flatten     bool
	pageHeight  float64
	list        bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "annotate: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "annotate: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/annotate [flags] <session-file>\n")
		flag.PrintDefaults()
	}
	out := flag.String("out", "", "Write the resulting session to this path")
	password := flag.String("password", "", "Password for protected session files")
	protect := flag.Bool("protect", false, "Encrypt the output session (requires -password)")
	script := flag.String("script", "", "JavaScript file to run against the session")
	timeout := flag.Duration("timeout", 5*time.Second, "Script execution timeout")
	flatten := flag.Bool("flatten", false, "Emit content stream operations per annotated page")
	pageHeight := flag.Float64("page-height", 842, "Page height in document units for flattening")
	list := flag.Bool("list", false, "Print an annotation summary per page")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing session path")
	}
	opts.sessionPath = flag.Arg(0)
	opts.outPath = *out
	opts.password = *password
	opts.protect = *protect
	opts.scriptPath = *script
	opts.timeout = *timeout
	opts.flatten = *flatten
	opts.pageHeight = *pageHeight
	opts.list = *list
	if opts.protect && opts.password == "" {
		return options{}, fmt.Errorf("-protect requires -password")
	}
	if !opts.list && opts.scriptPath == "" && !opts.flatten && opts.outPath == "" {
		opts.list = true
	}
	return opts, nil
}

func run(opts options) error {
	doc, err := loadSession(opts)
	if err != nil {
		return err
	}

	store := editor.NewStore()
	store.LoadSnapshot(doc.Annotations)

	if opts.scriptPath != "" {
		if err := runScript(store, opts); err != nil {
			return err
		}
		doc.Annotations = store.Present()
	}

	if opts.list {
		if err := emitSummary(store); err != nil {
			return err
		}
	}

	if opts.flatten {
		if err := emitFlattened(store, opts.pageHeight); err != nil {
			return err
		}
	}

	if opts.outPath != "" {
		doc.Annotations = store.Present()
		doc.SavedAt = time.Now()
		if err := saveSession(doc, opts); err != nil {
			return err
		}
	}
	return nil
}

func loadSession(opts options) (*session.Document, error) {
	data, err := os.ReadFile(opts.sessionPath)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	codec := session.NewCodec()
	if session.IsProtected(data) {
		if opts.password == "" {
			return nil, fmt.Errorf("session is protected, pass -password")
		}
		doc, err := codec.LoadProtected(bytes.NewReader(data), opts.password)
		if err != nil {
			return nil, fmt.Errorf("load protected session: %w", err)
		}
		return doc, nil
	}
	doc, err := codec.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return doc, nil
}

func saveSession(doc *session.Document, opts options) error {
	file, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	codec := session.NewCodec()
	if opts.protect {
		if err := codec.SaveProtected(file, doc, opts.password); err != nil {
			return fmt.Errorf("save protected session: %w", err)
		}
		return nil
	}
	if err := codec.Save(file, doc); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func runScript(store *editor.Store, opts options) error {
	src, err := os.ReadFile(opts.scriptPath)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}

	engine := scripting.NewEngine()
	adapter := dom.New(store, dom.WithAlertHandler(func(msg string) {
		fmt.Fprintf(os.Stderr, "alert: %s\n", msg)
	}))
	if err := engine.RegisterDOM(adapter); err != nil {
		return fmt.Errorf("register editor api: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	if _, err := engine.Execute(ctx, string(src)); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

type annotationSummary struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Page    int    `json:"page"`
	Content string `json:"content,omitempty"`
}

func emitSummary(store *editor.Store) error {
	summary := map[string][]annotationSummary{}
	for _, page := range store.Pages() {
		key := fmt.Sprintf("page %d", page)
		for _, a := range store.ForPage(page) {
			item := annotationSummary{ID: a.ID(), Kind: string(a.Kind()), Page: a.Page()}
			if text, ok := a.(*annotation.TextAnnotation); ok {
				item.Content = text.Content
			}
			summary[key] = append(summary[key], item)
		}
	}
	return emitSection("annotations", summary)
}

func emitFlattened(store *editor.Store, pageHeight float64) error {
	for _, page := range store.Pages() {
		flattener := export.NewFlattener(pageHeight)
		ops := flattener.FlattenPage(store.ForPage(page))
		fmt.Printf("== page %d ==\n%s\n", page, export.Serialize(ops))
	}
	return nil
}

func emitSection(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	fmt.Printf("== %s ==\n%s\n\n", name, data)
	return nil
}
