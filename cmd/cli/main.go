// Command cli prints the newest saved report from a running report viewer.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/hamed0406/sitecheck/internal/report"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	api = strings.TrimRight(api, "/")

	req, err := http.NewRequest(http.MethodGet, api+"/api/reports/latest", nil)
	if err != nil {
		fmt.Println("Invalid API_BASE:", err)
		os.Exit(1)
	}
	if key := os.Getenv("API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Println("API returned status:", resp.Status)
		os.Exit(1)
	}
	doc, err := report.DecodeDocument(resp.Body)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	color.New(color.FgHiCyan, color.Bold).Printf("run %s  generated %s\n", doc.RunID, doc.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("total %d | reachable %d | unreachable %d | malformed %d\n",
		doc.Total, len(doc.Reachable), len(doc.Unreachable), len(doc.Malformed))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range append(doc.Unreachable, doc.Malformed...) {
		fmt.Fprintf(tw, "  %s\t%s\n", e.URL, e.Detail)
	}
	_ = tw.Flush()
}
