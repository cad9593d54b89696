package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "./client", "Path to static client directory")
	dbPath := flag.String("db", "tankarena.db", "Path to SQLite database (empty to disable accounts)")
	mapPath := flag.String("map", "", "Path to a YAML map file (default: built-in classic board)")
	flag.Parse()

	gameMap := ClassicBoard()
	if *mapPath != "" {
		m, err := LoadMap(*mapPath)
		if err != nil {
			log.Fatalf("load map: %v", err)
		}
		gameMap = m
	}
	log.Printf("using map %q (%gx%g, %d walls)", gameMap.Name, gameMap.Width, gameMap.Height, len(gameMap.Walls))

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("running without a database; accounts disabled")
	}

	hub := NewHub(db, gameMap)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("server starting on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")
	hub.rooms.StopAll()
	server.Close()
}
