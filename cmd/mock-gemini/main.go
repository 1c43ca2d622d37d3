// mock-gemini runs the scripted Gemini fake as a standalone server, so the
// enricher can be exercised locally without a real credential: point
// GEMINI_BASE_URL at it.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/MathCsAI/feedback-enricher/internal/mockgemini"
)

func main() {
	addr := defaultString("MOCK_GEMINI_ADDR", ":9090")
	model := defaultString("MOCK_GEMINI_MODEL", "gemini-2.5-flash")
	text := defaultString("MOCK_GEMINI_TEXT", `{"summary": "canned summary", "sentiment": "neutral"}`)

	fs := flag.NewFlagSet("mock-gemini", flag.ExitOnError)
	fs.StringVar(&addr, "addr", addr, "Listen address")
	fs.StringVar(&model, "model", model, "Model name that answers successfully; others reject as not found")
	fs.StringVar(&text, "text", text, "Response text returned for the scripted model")
	_ = fs.Parse(os.Args[1:])

	srv := mockgemini.New()
	srv.Script(model, mockgemini.Text(text))

	_, _ = fmt.Fprintf(os.Stdout, "mock-gemini listening on %s (model=%s)\n", addr, model)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func defaultString(envVar string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return fallback
	}
	return v
}
