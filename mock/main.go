package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	http.HandleFunc("/booking/v1/expeditions/search", ExpeditionSearchHandler)
	http.HandleFunc("/booking/v1/cruises/search", CruiseSearchHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock booking API running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
