package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

var httpClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
	},
}

// startChaosMonkey opens streaming chats against random providers and drops
// them after 1-200ms, exercising bridge cancellation under load.
func startChaosMonkey(url string, concurrency int, done chan struct{}) {
	fmt.Printf("Starting Chaos Monkey with %d concurrent disrupters (random disconnects 1-200ms)\n", concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				pm := providerModels[rand.Intn(len(providerModels))]
				payload := chatBody(pm.provider, pm.model, true)

				timeout := time.Duration(rand.Intn(200)+1) * time.Millisecond
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(payload))
				req.Header.Set("Content-Type", "application/json")

				if resp, err := httpClient.Do(req); err == nil {
					resp.Body.Close()
				}
				cancel()

				time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
			}
		}()
	}
	wg.Wait()
}
