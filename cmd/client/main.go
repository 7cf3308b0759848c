package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

var (
	serverAddr = flag.String("addr", "http://localhost:8080", "rksearch server address")
)

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func upload(path string) {
	f, err := os.Open(path)
	must(err)
	defer f.Close()

	req, err := http.NewRequest("POST", *serverAddr+"/documents", f)
	must(err)
	req.Header.Set("X-Doc-Name", filepath.Base(path))

	resp, err := http.DefaultClient.Do(req)
	must(err)
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "upload failed (%d): %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var out map[string]any
	must(json.NewDecoder(resp.Body).Decode(&out))
	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(pretty))
}

func search(docID, pattern, mode string) {
	q := url.Values{}
	q.Set("q", pattern)
	if mode != "" {
		q.Set("mode", mode)
	}
	resp, err := http.Get(*serverAddr + "/documents/" + docID + "/search?" + q.Encode())
	must(err)
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "search failed (%d): %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var out struct {
		Count      int    `json:"count"`
		FirstIndex int    `json:"firstIndex"`
		Mode       string `json:"mode"`
	}
	must(json.NewDecoder(resp.Body).Decode(&out))
	if out.Count == 0 {
		fmt.Printf("no matches (%s)\n", out.Mode)
		return
	}
	fmt.Printf("%d matches, first at %d (%s)\n", out.Count, out.FirstIndex, out.Mode)
}

func list() {
	resp, err := http.Get(*serverAddr + "/documents")
	must(err)
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "list failed (%d): %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	var docs []struct {
		DocID     string `json:"docID"`
		Name      string `json:"name"`
		SizeBytes int    `json:"sizeBytes"`
	}
	must(json.NewDecoder(resp.Body).Decode(&docs))
	for _, d := range docs {
		fmt.Printf("%s  %8d  %s\n", d.DocID, d.SizeBytes, d.Name)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: client <upload|search|list> [args]\n")
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "upload":
		if flag.NArg() != 2 {
			fmt.Fprintf(os.Stderr, "usage: client upload <filepath>\n")
			os.Exit(1)
		}
		upload(flag.Arg(1))

	case "search":
		if flag.NArg() != 3 && flag.NArg() != 4 {
			fmt.Fprintf(os.Stderr, "usage: client search <docID> <pattern> [naive|rk|bloom]\n")
			os.Exit(1)
		}
		mode := ""
		if flag.NArg() == 4 {
			mode = flag.Arg(3)
		}
		search(flag.Arg(1), flag.Arg(2), mode)

	case "list":
		list()

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(1)
	}
}
