// Manual client for the notification feed. Connects with raw init
// data in the Authorization header and prints every pushed message.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
)

func main() {
	url := "ws://localhost:8888/api/v1/ws"

	header := http.Header{}
	header.Add("Authorization", "Telegram "+os.Getenv("INIT_DATA"))

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Println("read error:", err)
			return
		}

		log.Printf("Received:\n%s\n", p)
	}
}
