package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Round-trips a probe key through the configured JetStream bucket to verify
// connectivity before pointing the server at it.
func main() {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}
	bucket := os.Getenv("NATS_BUCKET")
	if bucket == "" {
		bucket = "bistro"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	nc, err := nats.Connect(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to NATS at %s: %v\n", url, err)
		os.Exit(1)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialise JetStream: %v\n", err)
		os.Exit(1)
	}

	store, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open bucket %s: %v\n", bucket, err)
		os.Exit(1)
	}

	probe := fmt.Sprintf("ping.%d", time.Now().UnixNano())
	if _, err := store.Put(ctx, probe, []byte("pong")); err != nil {
		fmt.Fprintf(os.Stderr, "Put failed: %v\n", err)
		os.Exit(1)
	}

	entry, err := store.Get(ctx, probe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
		os.Exit(1)
	}

	if err := store.Purge(ctx, probe); err != nil {
		fmt.Fprintf(os.Stderr, "Purge failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully round-tripped %q through bucket %s (revision %d)\n",
		string(entry.Value()), bucket, entry.Revision())
}
