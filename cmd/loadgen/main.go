package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// loadgen fires concurrent add-to-cart requests at a running storefront
// and then checks out once, verifying that the over-sell guard holds
// under load.

func main() {
	addr := flag.String("addr", "http://localhost:8080", "storefront base URL")
	productID := flag.String("product", "", "product id to add")
	size := flag.String("size", "", "size label to add")
	requests := flag.Int("requests", 50, "number of concurrent add-to-cart requests")
	phone := flag.String("phone", "628123456789", "customer phone for the checkout")
	flag.Parse()

	if *productID == "" || *size == "" {
		log.Fatal("-product and -size are required")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var successCount atomic.Int32
	var failCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := postJSON(client, *addr+"/api/cart/items", map[string]interface{}{
				"product_id": *productID,
				"size":       *size,
				"quantity":   1,
			}); err != nil {
				failCount.Add(1)
			} else {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== LOADGEN RESULTS ==========")
	fmt.Printf("Requests:    %d\n", *requests)
	fmt.Printf("Accepted:    %d\n", successCount.Load())
	fmt.Printf("Rejected:    %d\n", failCount.Load())
	fmt.Printf("Duration:    %v\n", elapsed)

	if successCount.Load() == 0 {
		fmt.Println("Nothing in cart, skipping checkout")
		return
	}

	runID := uuid.NewString()
	if err := postJSON(client, *addr+"/api/checkout", map[string]interface{}{
		"name":    "loadgen",
		"phone":   *phone,
		"address": "Jl. Loadgen No. 1",
		"notes":   "loadgen run " + runID,
	}); err != nil {
		fmt.Printf("Checkout:    FAILED (%v)\n", err)
	} else {
		fmt.Printf("Checkout:    OK (run %s)\n", runID)
	}
	fmt.Println("=====================================")
}

func postJSON(client *http.Client, url string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
