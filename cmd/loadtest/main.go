package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	promadapter "github.com/codewandler/typecache/adapters/prometheus"
	"github.com/codewandler/typecache/core/expiry"
	"github.com/codewandler/typecache/core/typecache"
)

// === Config ===

var (
	logLevel = slog.LevelInfo
	N        = getEnvInt("N", 15_000)
	workers  = getEnvInt("WORKERS", 10)
	duration = getEnvDuration("DURATION", 10*time.Second)
	ttl      = getEnvDuration("EXPIRY", 3*time.Second)
	addr     = getEnv("ADDR", ":2112")
	debug    = getEnvBool("DEBUG", false)
)

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	return v == "1" || strings.ToLower(v) == "true"
}

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return v
}

// === main ===

func main() {
	if debug {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelRun := context.WithTimeout(ctx, duration)
	defer cancelRun()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := promadapter.NewAllMetrics(reg)

	srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	defer func() { _ = srv.Close() }()

	pool := expiry.New(expiry.Options{Logger: log, Metrics: m.Expiry})
	defer pool.Close()

	c := typecache.New[any, any](
		typecache.WithScheduler(pool),
		typecache.WithExpiry(ttl),
		typecache.WithLogger(log),
		typecache.WithMetrics(m.Cache),
	)

	log.Info("starting",
		slog.Int("n", N),
		slog.Int("workers", workers),
		slog.Duration("duration", duration),
		slog.Duration("expiry", ttl),
		slog.String("metrics", addr),
	)

	var (
		wg       sync.WaitGroup
		puts     atomic.Int64
		rejected atomic.Int64
		hits     atomic.Int64
		misses   atomic.Int64
	)

	// an expired int bucket may be recreated by the string probe below,
	// after which int values are rejected until the next expiry
	put := func(k, v any) {
		puts.Add(1)
		if err := c.Put(k, v); errors.Is(err, typecache.ErrTypeMismatch) {
			rejected.Add(1)
		} else {
			checkErr(err)
		}
	}

	startAt := time.Now()

	for range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; ctx.Err() == nil; i = (i + 1) % N {
				put(i, i)
				put(strconv.Itoa(i), strconv.Itoa(i))
				put(N+i, N+i)
				c.Remove(N + i)
				put(i, strconv.Itoa(i))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; ctx.Err() == nil; i = (i + 1) % N {
				if _, ok := c.Get(i); ok {
					hits.Add(1)
				} else {
					misses.Add(1)
				}
			}
		}()
	}

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				mu := getMemUsage()
				fmt.Printf(" | %8d puts | %8d hits | %8d misses | %3d buckets | %3d pending | (%d / %d) MiB mem (sys) |\n",
					puts.Load(), hits.Load(), misses.Load(), len(c.KeyTypes()), pool.Pending(), mu.Alloc/1024/1024, mu.Sys/1024/1024)
			}
		}
	}()

	wg.Wait()

	// === stats ===
	println("")
	println("==========================================")

	took := time.Since(startAt)
	runtime.GC()

	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("         puts: %d (%d/s)\n", puts.Load(), int(float64(puts.Load())/took.Seconds()))
	fmt.Printf("   hits/miss : %d / %d\n", hits.Load(), misses.Load())
	fmt.Printf("     rejected: %d\n", rejected.Load())

	for _, s := range c.Stats() {
		fmt.Printf("   bucket %s: key=%s root=%s size=%d expires in %s\n",
			s.ID, s.KeyType, s.ValueRoot, s.Size, time.Until(s.ExpiresAt).Round(time.Millisecond))
	}
}

// === stats helpers ===

type MemUsage struct {
	Alloc uint64 // bytes allocated and not yet freed (heap)
	Sys   uint64 // total bytes obtained from OS
}

func getMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemUsage{Alloc: m.Alloc, Sys: m.Sys}
}

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
