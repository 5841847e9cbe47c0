// watch - tail a running typing session from the terminal.
//
// Connects to the monitor's state websocket and prints the decoded
// message whenever it changes.
//
// Usage:
//
//	watch -url ws://localhost:8090/ws/state
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/gorilla/websocket"

	"github.com/blinktalk/go-blinktalk/pkg/session"
)

func main() {
	url := flag.String("url", "ws://localhost:8090/ws/state", "monitor state websocket URL")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *url, err)
		os.Exit(1)
	}
	defer conn.Close()

	var last string
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection closed: %v\n", err)
			os.Exit(1)
		}

		var snap session.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}

		line := snap.Message
		if snap.Pending != "" {
			line = fmt.Sprintf("%s [%s]", snap.Message, snap.Pending)
		}
		if snap.PendingCorner != "" {
			line = fmt.Sprintf("calibrating: look %s", snap.PendingCorner)
		}
		if line != last {
			fmt.Println(line)
			last = line
		}
	}
}
