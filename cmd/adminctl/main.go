// Command adminctl edits site content from the terminal: list sections,
// change entries, upload images. It talks to the same content API the
// admin page uses.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lumen-studio/site-core/internal/editor"
)

func main() {
	apiBase := flag.String("api", envOr("SITE_API", "http://localhost:3200/api/v1"), "API base URL, including the /api/v1 prefix")
	token := flag.String("token", os.Getenv("SITE_TOKEN"), "Admin auth token")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := editor.NewClient(strings.TrimRight(*apiBase, "/"), *token, &http.Client{Timeout: *timeout})

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "login":
		err = runLogin(ctx, strings.TrimRight(*apiBase, "/"), *timeout, flag.Args()[1:])
	case "get":
		err = runGet(ctx, client, flag.Args()[1:])
	case "set":
		err = runSet(ctx, client, flag.Args()[1:])
	case "upload":
		err = runUpload(ctx, client, flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, editor.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "error: not authorized; pass a valid token via -token or SITE_TOKEN")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: adminctl [flags] <command> [args]

Commands:
  login <username> <password>    print a fresh auth token
  get [section]                  print content sections as JSON
  set <section> <key> <value>... change one or more entries and save
  upload <file>                  upload an image, print its path

set accepts repeated key/value pairs after the section:
  adminctl set hero headline "New headline" subtitle "New subtitle"

Flags:
`)
	flag.PrintDefaults()
}

func runLogin(ctx context.Context, apiBase string, timeout time.Duration, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <username> <password>")
	}
	body, _ := json.Marshal(map[string]string{"username": args[0], "password": args[1]})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("invalid username or password")
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("login failed (%d)", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}
	fmt.Println(payload.Token)
	return nil
}

func runGet(ctx context.Context, client *editor.Client, args []string) error {
	section := ""
	if len(args) > 0 {
		section = args[0]
	}
	sections, err := client.FetchContent(ctx, section)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sections)
}

func runSet(ctx context.Context, client *editor.Client, args []string) error {
	if len(args) < 3 || len(args)%2 == 0 {
		return errors.New("usage: set <section> <key> <value> [<key> <value>...]")
	}
	section := args[0]
	ctl := editor.NewController(client)
	if err := ctl.Load(ctx); err != nil && !errors.Is(err, editor.ErrEmptyContent) {
		return err
	}
	for i := 1; i < len(args); i += 2 {
		ctl.Mutate(section, args[i], args[i+1])
	}
	if !ctl.HasChanges() {
		fmt.Println("nothing to save")
		return nil
	}
	changed := ctl.Changed()
	if err := ctl.Save(ctx); err != nil {
		return err
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].ContentKey < changed[j].ContentKey })
	for _, rec := range changed {
		fmt.Printf("saved %s/%s\n", rec.Section, rec.ContentKey)
	}
	return nil
}

func runUpload(ctx context.Context, client *editor.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: upload <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	path, err := client.UploadImage(ctx, filepath.Base(args[0]), f)
	if err != nil {
		if errors.Is(err, editor.ErrPayloadTooLarge) {
			return fmt.Errorf("%w; resize the image and retry", err)
		}
		return err
	}
	fmt.Println(path)
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
