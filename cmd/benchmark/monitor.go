package main

import (
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
)

const requestsMetric = "llm_gateway_chat_requests_total"

func monitorResources(metricsURL string, pid int, done chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	fmt.Println("\n--- Resource Usage (/metrics + ps) ---")
	fmt.Printf("% -10s % -10s % -10s % -10s\n", "Time", "Heap(MB)", "RSS(MB)", "CPU(%)")

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			families, err := scrape(metricsURL)
			if err != nil {
				fmt.Printf("DEBUG: monitorResources failed to scrape metrics: %v\n", err)
				continue
			}

			fmt.Printf("% -10s % -10.2f % -10.2f % -10.2f\n",
				time.Now().Format("15:04:05"),
				gauge(families, "go_memstats_heap_inuse_bytes")/1024/1024,
				gauge(families, "process_resident_memory_bytes")/1024/1024,
				processCPU(pid),
			)
		}
	}
}

// reportGateway prints the dispatcher's own request counters, which break
// the run down by provider and outcome.
func reportGateway(metricsURL string) {
	families, err := scrape(metricsURL)
	if err != nil {
		fmt.Printf("could not read gateway metrics: %v\n", err)
		return
	}
	mf, ok := families[requestsMetric]
	if !ok {
		fmt.Println("No requests reached a provider.")
		return
	}

	rows := make([]string, 0, len(mf.GetMetric()))
	for _, m := range mf.GetMetric() {
		labels := make(map[string]string, len(m.GetLabel()))
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		rows = append(rows, fmt.Sprintf("% -10s % -8s % -14s %8.0f",
			labels["provider"], labels["stream"], labels["outcome"], m.GetCounter().GetValue()))
	}
	sort.Strings(rows)

	fmt.Println("Gateway dispatches (provider, stream, outcome, count):")
	for _, row := range rows {
		fmt.Println(row)
	}
}

func scrape(url string) (map[string]*dto.MetricFamily, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	parser := expfmt.NewTextParser(model.UTF8Validation)
	return parser.TextToMetricFamilies(resp.Body)
}

func gauge(families map[string]*dto.MetricFamily, name string) float64 {
	mf, ok := families[name]
	if !ok || len(mf.GetMetric()) == 0 {
		return 0
	}
	return mf.GetMetric()[0].GetGauge().GetValue()
}

func processCPU(pid int) float64 {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", "%cpu").Output()
	if err != nil {
		return 0
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0
	}
	val, _ := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64)
	return val
}
