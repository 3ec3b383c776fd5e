package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	imgbed "github.com/TyrEamon/CloudFlare-ImgBed"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func main() {
	count := flag.Int("count", 10000, "Number of file records to seed")
	writes := flag.Int("writes", 100, "Number of puts to time after seeding")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "imgbed_kv_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()
	storePath := filepath.Join(benchDir, "kv-store.json")

	// Seed the document directly to simulate an existing deployment.
	fmt.Printf("Generating %d file records in %s...\n", *count, storePath)
	startGen := time.Now()
	if err := seed(storePath, *count); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	// Run 1: cold, includes loading and parsing the document.
	startCold := time.Now()
	service, err := imgbed.New(storePath, imgbed.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	items, pages := listAll(ctx, service)
	cold := time.Since(startCold)
	fmt.Printf("Run 1 (cold): %v (Items: %d, Pages: %d)\n", cold, items, pages)

	// Run 2: warm, document already in memory.
	startWarm := time.Now()
	items, pages = listAll(ctx, service)
	warm := time.Since(startWarm)
	fmt.Printf("Run 2 (warm): %v (Items: %d, Pages: %d)\n", warm, items, pages)

	// Every put rewrites the whole document.
	startPut := time.Now()
	for i := 0; i < *writes; i++ {
		if err := service.Put(ctx, fmt.Sprintf("bench/new-%d.png", i), "payload", core.PutOptions{}); err != nil {
			panic(err)
		}
	}
	put := time.Since(startPut)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d records):\n", *count)
	fmt.Printf("  Cold list: %v\n", cold)
	fmt.Printf("  Warm list: %v\n", warm)
	if *writes > 0 {
		fmt.Printf("  Put:       %v per write\n", put/time.Duration(*writes))
	}
	fmt.Printf("--------------------------------------------------\n")
}

func seed(path string, count int) error {
	files := make(map[string]map[string]any, count)
	for i := 0; i < count; i++ {
		files[fmt.Sprintf("img/%06d.png", i)] = map[string]any{
			"value":    fmt.Sprintf("file-id-%d", i),
			"metadata": map[string]any{"Channel": "telegram", "TimeStamp": time.Now().UnixMilli()},
		}
	}
	data, err := json.Marshal(map[string]any{
		"files":      files,
		"settings":   map[string]any{},
		"operations": map[string]any{},
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func listAll(ctx context.Context, service *core.Service) (items, pages int) {
	opts := core.ListOptions{Prefix: "img/"}
	for {
		res, err := service.List(ctx, opts)
		if err != nil {
			panic(err)
		}
		items += len(res.Keys)
		pages++
		if res.ListComplete {
			return items, pages
		}
		opts.Cursor = res.Cursor
	}
}
