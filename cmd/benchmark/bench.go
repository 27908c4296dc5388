package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

// scenario is a named rotation of request bodies sent to /api/chat.
type scenario struct {
	describe string
	bodies   func(stream bool) []string
	// expect is the status the gateway should answer each body with.
	expect int
}

var providerModels = []struct{ provider, model string }{
	{"openai", "gpt-3.5-turbo"},
	{"anthropic", "claude-3-haiku-20240307"},
	{"google", "gemini-1.5-pro-latest"},
	{"mistral", "mistral-small-latest"},
}

func chatBody(provider, model string, stream bool) string {
	return fmt.Sprintf(`{"provider":%q,"model":%q,"stream":%t,"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"Hello"}]}`,
		provider, model, stream)
}

var scenarios = map[string]scenario{
	"openai": {
		describe: "single provider (openai)",
		bodies: func(stream bool) []string {
			return []string{chatBody("openai", "gpt-3.5-turbo", stream)}
		},
		expect: 200,
	},
	"mixed": {
		describe: "round robin over every wired provider",
		bodies: func(stream bool) []string {
			out := make([]string, 0, len(providerModels))
			for _, pm := range providerModels {
				out = append(out, chatBody(pm.provider, pm.model, stream))
			}
			return out
		},
		expect: 200,
	},
	"reject": {
		describe: "malformed requests answered by the validator",
		bodies: func(bool) []string {
			return []string{
				`{"provider":"openai","model":"gpt-3.5-turbo","messages":[]}`,
				`{"provider":"openai","model":"gpt-3.5-turbo","temperature":3,"messages":[{"role":"user","content":"hi"}]}`,
				`{"provider":"cohere","model":"x","messages":[{"role":"user","content":"hi"}]}`,
				`{"provider":"openai","model":"gpt-3.5-turbo","messages":[{"role":"user","content":42}]}`,
				`{"provider":`,
			}
		},
		expect: 400,
	},
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	stream := flag.Bool("stream", false, "Use streaming requests")
	chaos := flag.Bool("chaos", false, "Simulate random client disconnections")
	name := flag.String("scenario", "mixed", "Load shape: "+strings.Join(scenarioNames(), ", "))
	flag.Parse()

	sc, ok := scenarios[*name]
	if !ok {
		log.Fatalf("Unknown scenario %q, want one of %v", *name, scenarioNames())
	}

	go startMockUpstreams()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	configFile := "bench_config.yaml"
	if err := os.WriteFile(configFile, []byte(benchConfig()), 0o644); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	defer os.Remove(configFile)

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		"CONFIG_FILE="+configFile,
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	baseURL := fmt.Sprintf("http://localhost:%d", appPort)
	waitForApp(baseURL + "/health")

	done := make(chan struct{})
	go func() {
		time.Sleep(2 * time.Second)
		monitorResources(baseURL+"/metrics", cmd.Process.Pid, done)
	}()

	if *chaos {
		fmt.Println("CHAOS MODE ENABLED: Starting Chaos Monkey sidecar...")
		go startChaosMonkey(baseURL+"/api/chat", clamp(*rate/10, 5, 50), done)
	}

	mode := "Unary"
	if *stream {
		mode = "Streaming"
	}
	fmt.Printf("Running %s %s benchmark: %s duration, %d req/s\n", mode, sc.describe, *duration, *rate)

	metrics := attack(baseURL+"/api/chat", sc.bodies(*stream), *rate, *duration)
	close(done)

	report(metrics, sc.expect)
	reportGateway(baseURL + "/metrics")
}

// attack cycles through bodies for the whole run.
func attack(url string, bodies []string, rate int, duration time.Duration) *vegeta.Metrics {
	var next atomic.Uint64
	targeter := func(t *vegeta.Target) error {
		i := next.Add(1) - 1
		t.Method = "POST"
		t.URL = url
		t.Body = []byte(bodies[i%uint64(len(bodies))])
		t.Header = map[string][]string{"Content-Type": {"application/json"}}
		return nil
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: rate, Per: time.Second}, duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()
	return &metrics
}

func report(metrics *vegeta.Metrics, expect int) {
	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)

	codes := make([]string, 0, len(metrics.StatusCodes))
	for code := range metrics.StatusCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		marker := ""
		if code != fmt.Sprint(expect) {
			marker = "  (unexpected)"
		}
		fmt.Printf("Status %s:      %d%s\n", code, metrics.StatusCodes[code], marker)
	}
	fmt.Println("--------------------------------------------------")

	if expect == 200 && len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5):")
		for i, msg := range metrics.Errors {
			if i == 5 {
				break
			}
			fmt.Println(msg)
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := httpClient.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == 200 {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("App timed out")
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func benchConfig() string {
	mock := fmt.Sprintf("http://localhost:%d", mockPort)
	return fmt.Sprintf(`
server:
  port: "%d"
  env: development
log:
  level: "error"
metrics:
  enabled: true
providers:
  openai:
    api_key: "mock-key"
    base_url: "%s/openai/v1"
    models: ["gpt-3.5-turbo"]
  anthropic:
    api_key: "mock-key"
    base_url: "%s/anthropic"
    models: ["claude-3-haiku-20240307"]
  google:
    api_key: "mock-key"
    base_url: "%s/gemini"
    models: ["gemini-1.5-pro-latest"]
  mistral:
    api_key: "mock-key"
    base_url: "%s/mistral"
    models: ["mistral-small-latest"]
`, appPort, mock, mock, mock, mock)
}
