package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	wsURL    = flag.String("url", "ws://localhost:8080/ws", "websocket endpoint")
	users    = flag.Int("users", 50, "number of concurrent users")
	msgCount = flag.Int("messages", 20, "messages per user")
)

var received atomic.Int64

func main() {
	flag.Parse()
	log.Printf("🔥 STARTING STRESS TEST: %d users, %d messages each...", *users, *msgCount)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < *users; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runUser(id)
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(start)
	sent := int64(*users) * int64(*msgCount)
	log.Printf("✅ LOAD TEST COMPLETE: sent=%d received=%d elapsed=%s (%.0f msg/s)",
		sent, received.Load(), elapsed, float64(sent)/elapsed.Seconds())
}

func runUser(id int) {
	conn, _, err := websocket.DefaultDialer.Dial(*wsURL, nil)
	if err != nil {
		log.Printf("❌ WS connect fail [user_%d]: %v", id, err)
		return
	}
	defer conn.Close()

	// Count everything the server fans out to us until the writer is done.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received.Add(1)
		}
	}()

	name := fmt.Sprintf("user_%d", id)
	if err := conn.WriteJSON(map[string]string{"type": "join", "name": name}); err != nil {
		log.Printf("❌ Join fail [%s]: %v", name, err)
		return
	}

	for i := 0; i < *msgCount; i++ {
		frame := map[string]string{
			"type": "chat message",
			"text": fmt.Sprintf("LoadTest msg %d from %s", i, name),
		}
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("❌ Send fail [%s]: %v", name, err)
			break
		}
		// Small sleep to prevent instant localhost bottleneck.
		time.Sleep(10 * time.Millisecond)
	}

	// Give the fan-out a moment to drain before hanging up.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
